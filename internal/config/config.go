package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

// Config represents the main configuration for photocat.
type Config struct {
	CollectionRoot string `toml:"collection_root"`
	CacheRoot      string `toml:"cache_root"`
	LogDir         string `toml:"log_dir"`
	LogLevel       string `toml:"log_level"` // "debug", "info" (default), "warn" or "error"

	// Log file rotation, handed to lumberjack.
	LogMaxSizeMB  int `toml:"log_max_size_mb"`
	LogMaxBackups int `toml:"log_max_backups"`
	LogMaxAgeDays int `toml:"log_max_age_days"`

	Collection CollectionConfig  `toml:"collection"`
	Filesystem FilesystemConfig  `toml:"filesystem"`
	Rendition  RenditionConfig   `toml:"rendition"`
	Dimensions []DimensionConfig `toml:"dimensions"`
}

// CollectionConfig identifies the collection served from CollectionRoot.
// The id is also the namespace of every photo identity, so changing it
// changes all identities.
type CollectionConfig struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// FilesystemConfig holds filesystem-related settings.
type FilesystemConfig struct {
	Extensions []string `toml:"extensions"`
	Ignore     []string `toml:"ignore"`
	TrashDir   string   `toml:"trash_dir"`
}

// RenditionConfig configures cached renditions.
type RenditionConfig struct {
	JPEGQuality int `toml:"jpeg_quality"`
}

// DimensionConfig is a named rendition size. Zero sides are unconstrained.
type DimensionConfig struct {
	ID     string `toml:"id"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Crop   bool   `toml:"crop"`
}

const (
	DefaultLogLevel      = "info"
	DefaultTrashDir      = ".trash"
	DefaultJPEGQuality   = 85
	DefaultLogMaxSizeMB  = 10
	DefaultLogMaxBackups = 3
	DefaultLogMaxAgeDays = 28
	DefaultName          = "Photo folder"
)

// DefaultExtensions are the image extensions cataloged when none are configured.
func DefaultExtensions() []string {
	return []string{".jpg", ".jpeg"}
}

// DefaultDimensions are the rendition presets written by config init.
func DefaultDimensions() []DimensionConfig {
	return []DimensionConfig{
		{ID: "thumb", Width: 200, Height: 200, Crop: true},
		{ID: "small", Width: 640, Height: 640},
		{ID: "medium", Width: 1280, Height: 1280},
		{ID: "large", Width: 2560, Height: 2560},
	}
}

// NewConfig creates a new Config for the collection at collectionRoot with
// caches and logs below baseDir.
func NewConfig(collectionID, collectionRoot, baseDir string) *Config {
	return &Config{
		CollectionRoot: collectionRoot,
		CacheRoot:      filepath.Join(baseDir, "cache"),
		LogDir:         filepath.Join(baseDir, "log"),
		LogLevel:       DefaultLogLevel,
		LogMaxSizeMB:   DefaultLogMaxSizeMB,
		LogMaxBackups:  DefaultLogMaxBackups,
		LogMaxAgeDays:  DefaultLogMaxAgeDays,
		Collection: CollectionConfig{
			ID:   collectionID,
			Name: DefaultName,
		},
		Filesystem: FilesystemConfig{
			Extensions: DefaultExtensions(),
			TrashDir:   DefaultTrashDir,
		},
		Rendition:  RenditionConfig{JPEGQuality: DefaultJPEGQuality},
		Dimensions: DefaultDimensions(),
	}
}

// ApplyDefaults fills settings left empty in a hand-written config file.
// The collection id is left alone; an empty id selects the built-in one.
func (c *Config) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = DefaultLogMaxSizeMB
	}
	if c.Collection.Name == "" {
		c.Collection.Name = DefaultName
	}
	if len(c.Filesystem.Extensions) == 0 {
		c.Filesystem.Extensions = DefaultExtensions()
	}
	if c.Filesystem.TrashDir == "" {
		c.Filesystem.TrashDir = DefaultTrashDir
	}
	if c.Rendition.JPEGQuality == 0 {
		c.Rendition.JPEGQuality = DefaultJPEGQuality
	}
	if len(c.Dimensions) == 0 {
		c.Dimensions = DefaultDimensions()
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.CollectionRoot == "" {
		return fmt.Errorf("collection_root is required")
	}
	if c.Collection.ID != "" {
		if _, err := uuid.Parse(c.Collection.ID); err != nil {
			return fmt.Errorf("collection id %q is not a UUID: %w", c.Collection.ID, err)
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level: %s", c.LogLevel)
	}
	if c.LogMaxSizeMB < 0 || c.LogMaxBackups < 0 || c.LogMaxAgeDays < 0 {
		return fmt.Errorf("log rotation settings must not be negative")
	}

	if td := c.Filesystem.TrashDir; td != "" && (filepath.Base(td) != td || td == "." || td == "..") {
		return fmt.Errorf("trash_dir %q must be a plain directory name", td)
	}
	for _, ext := range c.Filesystem.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}

	if q := c.Rendition.JPEGQuality; q < 0 || q > 100 {
		return fmt.Errorf("jpeg_quality %d out of range 1-100", q)
	}

	seen := make(map[string]bool, len(c.Dimensions))
	for _, d := range c.Dimensions {
		if d.ID == "" || d.ID == "." || d.ID == ".." || strings.ContainsAny(d.ID, `/\`) {
			return fmt.Errorf("dimension id %q must be a plain name", d.ID)
		}
		if seen[d.ID] {
			return fmt.Errorf("duplicate dimension id: %s", d.ID)
		}
		seen[d.ID] = true
		if d.Width < 0 || d.Height < 0 {
			return fmt.Errorf("dimension %s has negative size", d.ID)
		}
	}
	return nil
}

// Dimension returns the configured dimension with the given id.
func (c *Config) Dimension(id string) (DimensionConfig, error) {
	for _, d := range c.Dimensions {
		if d.ID == id {
			return d, nil
		}
	}
	return DimensionConfig{}, fmt.Errorf("unknown dimension: %s", id)
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path and fills in defaults.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to a new config file at path. It refuses to overwrite.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
