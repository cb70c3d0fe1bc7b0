package testutil

import (
	"fmt"
	"path/filepath"

	"photocat/internal/catalog"
)

// StubMetadataExtractor serves metadata registered per path and fails for
// every other path, like a file without EXIF.
type StubMetadataExtractor struct {
	metadata map[string]*catalog.Metadata
	Calls    int
}

func NewStubMetadataExtractor() *StubMetadataExtractor {
	return &StubMetadataExtractor{metadata: make(map[string]*catalog.Metadata)}
}

// Set registers the metadata returned for path.
func (e *StubMetadataExtractor) Set(path string, meta *catalog.Metadata) {
	e.metadata[filepath.Clean(path)] = meta
}

func (e *StubMetadataExtractor) ExtractMetadata(path string) (*catalog.Metadata, error) {
	e.Calls++
	meta, ok := e.metadata[filepath.Clean(path)]
	if !ok {
		return nil, fmt.Errorf("no exif data in %s", path)
	}
	m := *meta
	return &m, nil
}

// StubImageProber reports the same dimensions for every file, or Err.
type StubImageProber struct {
	Width  int
	Height int
	Err    error
	Calls  int
}

func NewStubImageProber(width, height int) *StubImageProber {
	return &StubImageProber{Width: width, Height: height}
}

func (p *StubImageProber) ProbeDimensions(string) (int, int, error) {
	p.Calls++
	if p.Err != nil {
		return 0, 0, p.Err
	}
	return p.Width, p.Height, nil
}

// RenderCall records one StubRenditionProducer.Render invocation.
type RenderCall struct {
	Src string
	Dst string
	Dim catalog.DimensionSpec
}

// StubRenditionProducer records render requests and, when fsmgr is set,
// materializes the destination in the mock filesystem.
type StubRenditionProducer struct {
	fsmgr *MockFilesystemManager
	Calls []RenderCall
	Err   error
}

func NewStubRenditionProducer(fsmgr *MockFilesystemManager) *StubRenditionProducer {
	return &StubRenditionProducer{fsmgr: fsmgr}
}

func (r *StubRenditionProducer) Render(src, dst string, dim catalog.DimensionSpec) error {
	r.Calls = append(r.Calls, RenderCall{Src: src, Dst: dst, Dim: dim})
	if r.Err != nil {
		return r.Err
	}
	if r.fsmgr != nil {
		r.fsmgr.AddFile(dst, []byte("rendition"))
	}
	return nil
}

// Compile-time checks
var (
	_ catalog.MetadataExtractor = (*StubMetadataExtractor)(nil)
	_ catalog.ImageProber       = (*StubImageProber)(nil)
	_ catalog.RenditionProducer = (*StubRenditionProducer)(nil)
)
