package catalog_test

import (
	"path/filepath"
	"testing"
	"time"

	"photocat/internal/catalog"
	"photocat/internal/testutil"
)

const (
	testRoot      = "/photos"
	testCacheRoot = "/cache"
)

// fixture bundles a FileStorage with the fakes behind it.
type fixture struct {
	storage   *catalog.FileStorage
	fsmgr     *testutil.MockFilesystemManager
	extractor *testutil.StubMetadataExtractor
	prober    *testutil.StubImageProber
	renderer  *testutil.StubRenditionProducer
	clock     *testutil.StubClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fsmgr := testutil.NewMockFilesystemManager()
	fsmgr.AddDirectory(testRoot)

	f := &fixture{
		fsmgr:     fsmgr,
		extractor: testutil.NewStubMetadataExtractor(),
		prober:    testutil.NewStubImageProber(640, 480),
		renderer:  testutil.NewStubRenditionProducer(fsmgr),
		clock:     testutil.FixedClock(),
	}

	storage, err := catalog.NewFileStorage(
		catalog.Options{Root: testRoot, CacheRoot: testCacheRoot},
		f.fsmgr, f.extractor, f.prober, f.renderer, catalog.NewNopLogger(), f.clock,
	)
	if err != nil {
		t.Fatalf("NewFileStorage() error = %v", err)
	}
	f.storage = storage
	return f
}

// path returns the absolute path of rel below the collection root.
func (f *fixture) path(rel string) string {
	return filepath.Join(testRoot, filepath.FromSlash(rel))
}

// addPhoto adds an image with EXIF metadata captured at the given time.
func (f *fixture) addPhoto(t *testing.T, rel string, captured time.Time, brand string) string {
	t.Helper()
	p := f.path(rel)
	f.fsmgr.AddFileWithModTime(p, []byte("jpeg"), captured.Add(time.Hour))
	c := captured
	f.extractor.Set(p, &catalog.Metadata{
		Width:       4000,
		Height:      3000,
		Orientation: 1,
		CapturedAt:  &c,
		CameraBrand: brand,
		CameraModel: brand + " model",
	})
	return f.id(t, rel)
}

// addBarePhoto adds an image without metadata, modified at modTime.
func (f *fixture) addBarePhoto(t *testing.T, rel string, modTime time.Time) string {
	t.Helper()
	f.fsmgr.AddFileWithModTime(f.path(rel), []byte("jpeg"), modTime)
	return f.id(t, rel)
}

func (f *fixture) id(t *testing.T, rel string) string {
	t.Helper()
	id, err := f.storage.Identity(f.path(rel))
	if err != nil {
		t.Fatalf("Identity(%s) error = %v", rel, err)
	}
	return id
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func ids(photos []*catalog.Photo) []string {
	out := make([]string, 0, len(photos))
	for _, p := range photos {
		out = append(out, p.ID)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// seedCollection fills the fixture with nine photos spread over 2020-2022 and
// returns their identities keyed by relative path.
//
// Paths containing "ball": 2020/football/goal.jpg, 2020/football/kickoff.jpg,
// 2021/basketball.jpg. 2022/family/Ball-game.jpg has no metadata.
func seedCollection(t *testing.T, f *fixture) map[string]string {
	t.Helper()
	seeded := map[string]string{
		"2020/football/goal.jpg":    f.addPhoto(t, "2020/football/goal.jpg", date(2020, 5, 2), "Canon"),
		"2020/football/kickoff.jpg": f.addPhoto(t, "2020/football/kickoff.jpg", date(2020, 5, 2), "Canon"),
		"2020/holiday.jpg":          f.addPhoto(t, "2020/holiday.jpg", date(2020, 8, 15), "Nikon"),
		"2021/basketball.jpg":       f.addPhoto(t, "2021/basketball.jpg", date(2021, 2, 10), "Nikon"),
		"2022/beach.jpg":            f.addPhoto(t, "2022/beach.jpg", date(2022, 7, 20), "Canon"),
		"2022/coffee-break.jpg":     f.addPhoto(t, "2022/coffee-break.jpg", date(2022, 3, 7), "ASUS"),
		"2022/family/dinner.jpg":    f.addPhoto(t, "2022/family/dinner.jpg", date(2022, 7, 21), "Apple"),
		"2022/sunset.jpg":           f.addPhoto(t, "2022/sunset.jpg", date(2022, 7, 21), "Apple"),
	}
	seeded["2022/family/Ball-game.jpg"] = f.addBarePhoto(t, "2022/family/Ball-game.jpg", date(2022, 11, 30))
	return seeded
}

// idsOf maps relative paths to identities.
func idsOf(seeded map[string]string, rels ...string) []string {
	out := make([]string, 0, len(rels))
	for _, rel := range rels {
		out = append(out, seeded[rel])
	}
	return out
}
