package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"photocat/internal/catalog"
	"photocat/internal/config"
	"photocat/internal/fs"
	"photocat/internal/imagemeta"
	"photocat/internal/rendition"
)

// PhotoApp is the application layer between the CLI and the catalog.
// It constructs all dependencies from config, accepts raw CLI values and
// owns the log file until Close.
type PhotoApp struct {
	cfg     *config.Config
	storage *catalog.FileStorage
	op      *Operation
	logger  *slog.Logger
	logFile io.Closer
}

// NewPhotoApp creates a fully wired PhotoApp from the given config.
// command identifies the CLI command being run (e.g. "list", "trash").
// The caller must call Close when done.
func NewPhotoApp(cfg *config.Config, command, parameters string) (*PhotoApp, error) {
	return newPhotoApp(cfg, command, parameters, os.Stderr)
}

func newPhotoApp(cfg *config.Config, command, parameters string, stderr io.Writer) (*PhotoApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	clock := catalog.RealClock{}
	op := NewOperation(command, parameters, clock.Now())

	logger, logFile, err := newLogger(cfg, op.ID, stderr)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	renderer, err := rendition.NewRendererFromConfig(cfg.Rendition)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	fsmgr := fs.NewOSFilesystemManager(cfg.Filesystem.Ignore)
	prober := imagemeta.NewConfigProber()
	extractor := imagemeta.NewExifExtractor(prober)

	storage, err := catalog.NewFileStorage(catalog.Options{
		Root:       cfg.CollectionRoot,
		CacheRoot:  cfg.CacheRoot,
		TrashDir:   cfg.Filesystem.TrashDir,
		Extensions: cfg.Filesystem.Extensions,
		Collection: catalog.Collection{
			ID:      cfg.Collection.ID,
			Name:    cfg.Collection.Name,
			Enabled: true,
		},
	}, fsmgr, extractor, prober, renderer, &slogAdapter{l: logger}, clock)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating storage: %w", err)
	}

	logger.Debug("command started", "command", command, "parameters", parameters)
	return &PhotoApp{
		cfg:     cfg,
		storage: storage,
		op:      op,
		logger:  logger,
		logFile: logFile,
	}, nil
}

// Collections returns the collections served by this app.
func (a *PhotoApp) Collections() []*catalog.Collection {
	return a.storage.ListCollections()
}

// Get returns photos by identity, in the order given.
func (a *PhotoApp) Get(ids []string) ([]*catalog.Photo, error) {
	photos, err := a.storage.GetMany(ids)
	return photos, a.op.Record(err)
}

// ListQuery holds the raw values of a list request.
type ListQuery struct {
	Limit     int
	Offset    int
	Sorts     []string // "field[:asc|desc]"
	From      string   // effective date range, see ParseTime
	To        string
	AddedFrom string
	AddedTo   string
	IDs       []string
}

// List parses q and returns the matching page of photos.
func (a *PhotoApp) List(q ListQuery) ([]*catalog.Photo, error) {
	filters, sorts, err := q.parse()
	if err != nil {
		return nil, a.op.Record(err)
	}
	photos, err := a.storage.List(filters, sorts, q.Limit, q.Offset)
	return photos, a.op.Record(err)
}

func (q ListQuery) parse() ([]catalog.Filter, []catalog.Sort, error) {
	var filters []catalog.Filter
	if len(q.IDs) > 0 {
		filters = append(filters, catalog.PhotoIDFilter(q.IDs...))
	}

	if q.From != "" || q.To != "" {
		from, to, err := parseRange(q.From, q.To)
		if err != nil {
			return nil, nil, err
		}
		filters = append(filters, catalog.PhotoDateRangeFilter(from, to))
	}
	if q.AddedFrom != "" || q.AddedTo != "" {
		from, to, err := parseRange(q.AddedFrom, q.AddedTo)
		if err != nil {
			return nil, nil, err
		}
		filters = append(filters, catalog.AddedRangeFilter(from, to))
	}

	sorts := make([]catalog.Sort, 0, len(q.Sorts))
	for _, raw := range q.Sorts {
		s, err := ParseSort(raw)
		if err != nil {
			return nil, nil, err
		}
		sorts = append(sorts, s)
	}
	return filters, sorts, nil
}

func parseRange(rawFrom, rawTo string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if rawFrom != "" {
		if from, err = ParseTime(rawFrom, false); err != nil {
			return from, to, err
		}
	}
	if rawTo != "" {
		if to, err = ParseTime(rawTo, true); err != nil {
			return from, to, err
		}
	}
	return from, to, nil
}

// ParseSort parses "field" or "field:order", e.g. "photo_date:desc".
func ParseSort(raw string) (catalog.Sort, error) {
	field, order, _ := strings.Cut(raw, ":")
	s := catalog.Sort{Field: catalog.SortField(field), Order: catalog.SortOrder(order)}
	return s, s.Validate()
}

// ParseTime accepts RFC 3339 timestamps and plain dates (2006-01-02, local
// time). A plain date used as a range end covers the whole day.
func ParseTime(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is neither a date nor an RFC 3339 time", catalog.ErrInvalidInput, raw)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}

// Search returns photos whose relative path contains term.
func (a *PhotoApp) Search(term string) ([]*catalog.Photo, error) {
	photos, err := a.storage.Search(term, nil)
	return photos, a.op.Record(err)
}

// Trash moves a photo to the trash.
func (a *PhotoApp) Trash(id string) error {
	return a.op.Record(a.storage.SoftDelete(id))
}

// Restore moves a trashed photo back to its original location.
func (a *PhotoApp) Restore(id string) error {
	return a.op.Record(a.storage.UndoSoftDelete(id))
}

// Trashed returns the entries currently in the trash.
func (a *PhotoApp) Trashed() ([]*catalog.Entry, error) {
	entries, err := a.storage.ListTrashed()
	return entries, a.op.Record(err)
}

// Dimensions returns the configured rendition sizes.
func (a *PhotoApp) Dimensions() []catalog.DimensionSpec {
	return rendition.DimensionSpecs(a.cfg.Dimensions)
}

func (a *PhotoApp) dimension(id string) (catalog.DimensionSpec, error) {
	d, err := a.cfg.Dimension(id)
	if err != nil {
		return catalog.DimensionSpec{}, fmt.Errorf("%w: %w", catalog.ErrInvalidInput, err)
	}
	return rendition.DimensionSpec(d), nil
}

// CachePath returns where the rendition of id at the named dimension is cached.
func (a *PhotoApp) CachePath(id, dimID string) (string, error) {
	dim, err := a.dimension(dimID)
	if err != nil {
		return "", a.op.Record(err)
	}
	path, err := a.storage.ResolveCachePath(id, dim)
	return path, a.op.Record(err)
}

// Render returns the cached rendition of id at the named dimension,
// producing it first if needed.
func (a *PhotoApp) Render(id, dimID string) (string, error) {
	dim, err := a.dimension(dimID)
	if err != nil {
		return "", a.op.Record(err)
	}
	path, err := a.storage.ResolvePhotoPath(id, dim)
	return path, a.op.Record(err)
}

// YearStats counts photos per year, largest first.
func (a *PhotoApp) YearStats() ([]*catalog.Quantity, error) {
	qs, err := a.storage.QuantityByYear(nil)
	return qs, a.op.Record(err)
}

// MonthStats counts photos per month of year.
func (a *PhotoApp) MonthStats(year int) ([]*catalog.Quantity, error) {
	qs, err := a.storage.QuantityByMonth(year, nil)
	return qs, a.op.Record(err)
}

// DayStats counts photos per day of month in year.
func (a *PhotoApp) DayStats(year, month int) ([]*catalog.Quantity, error) {
	if month < 1 || month > 12 {
		return nil, a.op.Record(fmt.Errorf("%w: month %d out of range", catalog.ErrInvalidInput, month))
	}
	qs, err := a.storage.QuantityByDay(month, year, nil)
	return qs, a.op.Record(err)
}

// Close logs the outcome of the command and releases the log file.
func (a *PhotoApp) Close() error {
	a.logger.Debug("command finished",
		"command", a.op.Command,
		"status", a.op.Status,
		"duration", time.Since(a.op.StartedAt).Round(time.Millisecond))

	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}
