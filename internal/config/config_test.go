package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testCollectionID = "427e8cdc-2275-4b54-942c-3295b2e300e2"

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := NewConfig(testCollectionID, "/photos", "/home/user/.local/share/photocat")
	original.LogLevel = "debug"
	original.Filesystem.Ignore = []string{"@eaDir", "*.tmp.jpg"}
	original.Dimensions = []DimensionConfig{{ID: "thumb", Width: 120, Height: 90, Crop: true}}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.CollectionRoot != "/photos" {
		t.Errorf("CollectionRoot = %q, want %q", got.CollectionRoot, "/photos")
	}
	if got.CacheRoot != original.CacheRoot {
		t.Errorf("CacheRoot = %q, want %q", got.CacheRoot, original.CacheRoot)
	}
	if got.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", got.LogLevel, "debug")
	}
	if got.Collection.ID != testCollectionID {
		t.Errorf("Collection.ID = %q, want %q", got.Collection.ID, testCollectionID)
	}
	if len(got.Filesystem.Ignore) != 2 {
		t.Fatalf("len(Filesystem.Ignore) = %d, want 2", len(got.Filesystem.Ignore))
	}
	if len(got.Dimensions) != 1 {
		t.Fatalf("len(Dimensions) = %d, want 1", len(got.Dimensions))
	}
	if got.Dimensions[0] != original.Dimensions[0] {
		t.Errorf("Dimensions[0] = %+v, want %+v", got.Dimensions[0], original.Dimensions[0])
	}
}

func TestManager_Read_HandWritten(t *testing.T) {
	input := `
collection_root = "/srv/photos"
cache_root = "/var/cache/photocat"

[collection]
id = "427e8cdc-2275-4b54-942c-3295b2e300e2"

[filesystem]
ignore = ["@eaDir"]

[[dimensions]]
id = "thumb"
width = 200
height = 200
crop = true

[[dimensions]]
id = "wide"
width = 1920
`
	cfg, err := (&Manager{}).Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Filesystem.TrashDir != DefaultTrashDir {
		t.Errorf("TrashDir = %q, want %q", cfg.Filesystem.TrashDir, DefaultTrashDir)
	}
	if len(cfg.Filesystem.Extensions) != 2 {
		t.Errorf("Extensions = %v, want defaults", cfg.Filesystem.Extensions)
	}
	if cfg.Rendition.JPEGQuality != DefaultJPEGQuality {
		t.Errorf("JPEGQuality = %d, want %d", cfg.Rendition.JPEGQuality, DefaultJPEGQuality)
	}

	wide, err := cfg.Dimension("wide")
	if err != nil {
		t.Fatalf("Dimension() error = %v", err)
	}
	if wide.Width != 1920 || wide.Height != 0 || wide.Crop {
		t.Errorf("wide = %+v", wide)
	}
	if _, err := cfg.Dimension("medium"); err == nil {
		t.Error("configured dimensions replace the presets")
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(testCollectionID, "/photos", "/data/photocat")

	if cfg.CacheRoot != "/data/photocat/cache" {
		t.Errorf("CacheRoot = %q, want %q", cfg.CacheRoot, "/data/photocat/cache")
	}
	if cfg.LogDir != "/data/photocat/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/photocat/log")
	}
	if cfg.Collection.Name != DefaultName {
		t.Errorf("Collection.Name = %q, want %q", cfg.Collection.Name, DefaultName)
	}
	thumb, err := cfg.Dimension("thumb")
	if err != nil {
		t.Fatalf("Dimension(thumb) error = %v", err)
	}
	if thumb.Width != 200 || thumb.Height != 200 || !thumb.Crop {
		t.Errorf("thumb = %+v", thumb)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "missing collection root", modify: func(c *Config) { c.CollectionRoot = "" }},
		{name: "collection id not a uuid", modify: func(c *Config) { c.Collection.ID = "photos" }},
		{name: "unknown log level", modify: func(c *Config) { c.LogLevel = "verbose" }},
		{name: "negative rotation", modify: func(c *Config) { c.LogMaxBackups = -1 }},
		{name: "nested trash dir", modify: func(c *Config) { c.Filesystem.TrashDir = "a/b" }},
		{name: "extension without dot", modify: func(c *Config) { c.Filesystem.Extensions = []string{"jpg"} }},
		{name: "quality out of range", modify: func(c *Config) { c.Rendition.JPEGQuality = 101 }},
		{name: "dimension without id", modify: func(c *Config) { c.Dimensions = append(c.Dimensions, DimensionConfig{Width: 1}) }},
		{name: "dimension id with separator", modify: func(c *Config) { c.Dimensions = append(c.Dimensions, DimensionConfig{ID: "a/b"}) }},
		{name: "duplicate dimension", modify: func(c *Config) { c.Dimensions = append(c.Dimensions, DimensionConfig{ID: "thumb"}) }},
		{name: "negative dimension", modify: func(c *Config) { c.Dimensions[0].Width = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(testCollectionID, "/photos", "/data")
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() expected error")
			}
		})
	}

	t.Run("empty collection id is allowed", func(t *testing.T) {
		cfg := NewConfig("", "/photos", "/data")
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "conf", "photocat.toml")
		cfg := NewConfig(testCollectionID, "/photos", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "photocat.toml")
		cfg := NewConfig(testCollectionID, "/photos", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		err := Init(path, cfg)
		if err == nil {
			t.Fatal("second Init() expected error")
		}
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "photocat.toml")

		if err := Init(path, NewConfig(testCollectionID, "", dir)); err == nil {
			t.Fatal("Init() expected error for missing collection root")
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("invalid config was written")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "photocat.toml")
		cfg := NewConfig(testCollectionID, "/photos", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.Collection.ID != testCollectionID {
			t.Errorf("Collection.ID = %q, want %q", got.Collection.ID, testCollectionID)
		}
		if len(got.Dimensions) != len(DefaultDimensions()) {
			t.Errorf("len(Dimensions) = %d, want %d", len(got.Dimensions), len(DefaultDimensions()))
		}
	})

	t.Run("fills defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "photocat.toml")
		if err := os.WriteFile(path, []byte(`collection_root = "/photos"`+"\n"), 0644); err != nil {
			t.Fatal(err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.LogLevel != DefaultLogLevel {
			t.Errorf("LogLevel = %q, want %q", got.LogLevel, DefaultLogLevel)
		}
		if got.Collection.ID != "" {
			t.Errorf("Collection.ID = %q, want empty", got.Collection.ID)
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := ReadFromFile("/nonexistent/path/photocat.toml")
		if err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})

	t.Run("returns error for malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "photocat.toml")
		if err := os.WriteFile(path, []byte("collection_root = \n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := ReadFromFile(path); err == nil {
			t.Fatal("ReadFromFile() expected error for malformed file")
		}
	})
}
