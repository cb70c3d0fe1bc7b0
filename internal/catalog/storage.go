package catalog

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
)

// DefaultTrashDir is the name of the trash subtree below the collection root.
const DefaultTrashDir = ".trash"

// Storage is the photo storage abstraction served by this package.
// Other backends must behave identically from the caller's point of view.
type Storage interface {
	ListCollections() []*Collection
	Get(id string) (*Photo, error)
	GetMany(ids []string) ([]*Photo, error)
	List(filters []Filter, sorts []Sort, limit, offset int) ([]*Photo, error)
	Search(term string, collectionIDs []string) ([]*Photo, error)
	SoftDelete(id string) error
	UndoSoftDelete(id string) error
	ResolveCachePath(id string, dim DimensionSpec) (string, error)
	ResolvePhotoPath(id string, dim DimensionSpec) (string, error)
	QuantityByYear(collectionIDs []string) ([]*Quantity, error)
	QuantityByMonth(year int, collectionIDs []string) ([]*Quantity, error)
	QuantityByDay(month, year int, collectionIDs []string) ([]*Quantity, error)
}

// Options configures a FileStorage.
type Options struct {
	Root       string   // collection root
	CacheRoot  string   // rendition cache root; empty disables cache paths
	TrashDir   string   // trash subtree name below Root, DefaultTrashDir if empty
	Extensions []string // image extensions to catalog, ".jpg" and ".jpeg" if empty
	Collection Collection
}

// FileStorage is a Storage backed by a directory tree of image files.
//
// The catalog index is built lazily on first use and kept for the lifetime of
// the instance. FileStorage holds no locks: the first call on an instance must
// not race with any other call, so embedding code shares an instance only
// after serializing that first access.
type FileStorage struct {
	root       string
	trashDir   string
	trashRoot  string
	cacheRoot  string
	extensions []string
	collection Collection

	fsmgr     FilesystemManager
	extractor MetadataExtractor
	prober    ImageProber
	renderer  RenditionProducer
	logger    Logger
	clock     Clock
	ids       *IdentityGenerator

	built bool
	idx   *index
}

// NewFileStorage creates a FileStorage with the provided options and collaborators.
// renderer may be nil, in which case ResolvePhotoPath only serves existing renditions.
func NewFileStorage(opts Options, fsmgr FilesystemManager, extractor MetadataExtractor, prober ImageProber, renderer RenditionProducer, logger Logger, clock Clock) (*FileStorage, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("%w: collection root is required", ErrInvalidInput)
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving collection root: %w", ErrInvalidInput, err)
	}

	collection := opts.Collection
	if collection.ID == "" {
		collection.ID = DefaultCollectionID
	}
	if collection.Name == "" {
		collection.Name = "Photo folder"
	}
	if collection.Description == "" {
		collection.Description = fmt.Sprintf("Photo folder (%s)", root)
	}
	namespace, err := uuid.Parse(collection.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: collection id must be a UUID: %w", ErrInvalidInput, err)
	}

	trashDir := opts.TrashDir
	if trashDir == "" {
		trashDir = DefaultTrashDir
	}
	if filepath.Base(trashDir) != trashDir || trashDir == "." || trashDir == ".." {
		return nil, fmt.Errorf("%w: trash dir %q must be a plain directory name", ErrInvalidInput, trashDir)
	}

	extensions := opts.Extensions
	if len(extensions) == 0 {
		extensions = []string{".jpg", ".jpeg"}
	}

	cacheRoot := opts.CacheRoot
	if cacheRoot != "" {
		cacheRoot = filepath.Clean(cacheRoot)
	}

	trashRoot := filepath.Join(root, trashDir)
	return &FileStorage{
		root:       root,
		trashDir:   trashDir,
		trashRoot:  trashRoot,
		cacheRoot:  cacheRoot,
		extensions: extensions,
		collection: collection,
		fsmgr:      fsmgr,
		extractor:  extractor,
		prober:     prober,
		renderer:   renderer,
		logger:     logger,
		clock:      clock,
		ids:        NewIdentityGenerator(namespace, fsmgr, root, trashRoot),
	}, nil
}

// Root returns the absolute collection root.
func (s *FileStorage) Root() string { return s.root }

// TrashRoot returns the absolute root of the trash mirror.
func (s *FileStorage) TrashRoot() string { return s.trashRoot }

// Identity returns the identity of the file at absPath, which may live under
// the collection root or the trash root.
func (s *FileStorage) Identity(absPath string) (string, error) {
	return s.ids.Generate(absPath)
}

// ListCollections returns the single collection this storage represents.
func (s *FileStorage) ListCollections() []*Collection {
	c := s.collection
	return []*Collection{&c}
}

// inCollections reports whether a caller-supplied collection restriction
// includes this storage. An empty restriction includes everything.
func (s *FileStorage) inCollections(collectionIDs []string) bool {
	if len(collectionIDs) == 0 {
		return true
	}
	for _, id := range collectionIDs {
		if id == s.collection.ID {
			return true
		}
	}
	return false
}

// Compile-time check that FileStorage implements Storage
var _ Storage = (*FileStorage)(nil)
