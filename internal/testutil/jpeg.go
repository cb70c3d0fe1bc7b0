package testutil

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
)

// ExifFields are the IFD0 tags written by WriteJPEGWithExif.
// Empty strings and a zero Orientation are left out.
type ExifFields struct {
	Make        string
	Model       string
	Orientation uint16
	DateTime    string // "2006:01:02 15:04:05"
}

// EncodeJPEG returns a solid-color JPEG of the given size.
func EncodeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding jpeg: %v", err)
	}
	return buf.Bytes()
}

// WriteJPEG writes a JPEG without metadata, creating parent directories.
func WriteJPEG(t *testing.T, path string, width, height int) {
	t.Helper()
	writeBytes(t, path, EncodeJPEG(t, width, height))
}

// WriteJPEGWithExif writes a JPEG carrying an EXIF APP1 segment with fields.
func WriteJPEGWithExif(t *testing.T, path string, width, height int, fields ExifFields) {
	t.Helper()
	plain := EncodeJPEG(t, width, height)

	var out bytes.Buffer
	out.Write(plain[:2]) // SOI
	out.Write(exifSegment(fields))
	out.Write(plain[2:])
	writeBytes(t, path, out.Bytes())
}

func writeBytes(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

// exifSegment builds a big-endian TIFF block with a single IFD wrapped in a
// JPEG APP1 marker.
func exifSegment(fields ExifFields) []byte {
	const (
		typeASCII = 2
		typeShort = 3
	)
	ascii := func(tag uint16, s string) ifdEntry {
		data := append([]byte(s), 0)
		return ifdEntry{tag: tag, typ: typeASCII, count: uint32(len(data)), data: data}
	}

	var entries []ifdEntry
	if fields.Make != "" {
		entries = append(entries, ascii(0x010F, fields.Make))
	}
	if fields.Model != "" {
		entries = append(entries, ascii(0x0110, fields.Model))
	}
	if fields.Orientation != 0 {
		v := make([]byte, 2)
		binary.BigEndian.PutUint16(v, fields.Orientation)
		entries = append(entries, ifdEntry{tag: 0x0112, typ: typeShort, count: 1, data: v})
	}
	if fields.DateTime != "" {
		entries = append(entries, ascii(0x0132, fields.DateTime))
	}

	var tiff, extra bytes.Buffer
	tiff.WriteString("MM\x00\x2a")
	binary.Write(&tiff, binary.BigEndian, uint32(8))
	binary.Write(&tiff, binary.BigEndian, uint16(len(entries)))

	dataStart := 8 + 2 + 12*len(entries) + 4
	for _, e := range entries {
		binary.Write(&tiff, binary.BigEndian, e.tag)
		binary.Write(&tiff, binary.BigEndian, e.typ)
		binary.Write(&tiff, binary.BigEndian, e.count)
		if len(e.data) <= 4 {
			value := make([]byte, 4)
			copy(value, e.data)
			tiff.Write(value)
			continue
		}
		binary.Write(&tiff, binary.BigEndian, uint32(dataStart+extra.Len()))
		extra.Write(e.data)
	}
	binary.Write(&tiff, binary.BigEndian, uint32(0)) // no next IFD
	tiff.Write(extra.Bytes())

	payload := append([]byte("Exif\x00\x00"), tiff.Bytes()...)

	var seg bytes.Buffer
	seg.Write([]byte{0xFF, 0xE1})
	binary.Write(&seg, binary.BigEndian, uint16(len(payload)+2))
	seg.Write(payload)
	return seg.Bytes()
}
