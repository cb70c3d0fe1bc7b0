package catalog

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// FilterKind is the closed set of supported photo filters.
type FilterKind string

const (
	FilterPhotoIDs       FilterKind = "photo_ids"
	FilterCollectionIDs  FilterKind = "collection_ids"
	FilterPhotoDateRange FilterKind = "photo_date_range" // effective date
	FilterAddedRange     FilterKind = "added_range"
)

// Filter restricts the photos returned by List. Which fields are used depends
// on Kind: IDs for the membership kinds, From/To for the range kinds. A zero
// From or To leaves that side of the range open; both ends are inclusive.
type Filter struct {
	Kind FilterKind
	IDs  []string
	From time.Time
	To   time.Time
}

// PhotoIDFilter keeps photos whose identity is one of ids.
func PhotoIDFilter(ids ...string) Filter {
	return Filter{Kind: FilterPhotoIDs, IDs: ids}
}

// CollectionIDFilter keeps photos belonging to one of ids.
func CollectionIDFilter(ids ...string) Filter {
	return Filter{Kind: FilterCollectionIDs, IDs: ids}
}

// PhotoDateRangeFilter keeps photos whose effective date is within [from, to].
func PhotoDateRangeFilter(from, to time.Time) Filter {
	return Filter{Kind: FilterPhotoDateRange, From: from, To: to}
}

// AddedRangeFilter keeps photos added to the catalog within [from, to].
func AddedRangeFilter(from, to time.Time) Filter {
	return Filter{Kind: FilterAddedRange, From: from, To: to}
}

func (f Filter) validate() error {
	switch f.Kind {
	case FilterPhotoIDs, FilterCollectionIDs:
		return nil
	case FilterPhotoDateRange, FilterAddedRange:
		if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
			return fmt.Errorf("%w: %s filter starts after it ends", ErrInvalidInput, f.Kind)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown filter kind %q", ErrInvalidInput, f.Kind)
	}
}

func (f Filter) match(p *Photo) bool {
	switch f.Kind {
	case FilterPhotoIDs:
		return slices.Contains(f.IDs, p.ID)
	case FilterCollectionIDs:
		return slices.Contains(f.IDs, p.CollectionID)
	case FilterPhotoDateRange:
		return f.inRange(p.EffectiveDate())
	case FilterAddedRange:
		return f.inRange(p.AddedAt)
	}
	return false
}

func (f Filter) inRange(t time.Time) bool {
	if !f.From.IsZero() && t.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && t.After(f.To) {
		return false
	}
	return true
}

// SortField is the closed set of fields List can order by.
type SortField string

const (
	SortByPhotoDate   SortField = "photo_date" // effective date
	SortByAddedAt     SortField = "added_at"
	SortByModifiedAt  SortField = "modified_at"
	SortByCameraBrand SortField = "camera_brand"
	SortByID          SortField = "id"
)

// SortOrder is the direction of a sort criterion. Empty means ascending.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Sort is one ordering criterion for List.
type Sort struct {
	Field SortField
	Order SortOrder
}

// Validate reports ErrInvalidInput for an unknown field or order. An empty
// order means ascending.
func (c Sort) Validate() error {
	switch c.Field {
	case SortByPhotoDate, SortByAddedAt, SortByModifiedAt, SortByCameraBrand, SortByID:
	default:
		return fmt.Errorf("%w: unknown sort field %q", ErrInvalidInput, c.Field)
	}
	switch c.Order {
	case "", SortAsc, SortDesc:
		return nil
	default:
		return fmt.Errorf("%w: unknown sort order %q", ErrInvalidInput, c.Order)
	}
}

func (c Sort) compare(a, b *Photo) int {
	var r int
	switch c.Field {
	case SortByPhotoDate:
		r = a.EffectiveDate().Compare(b.EffectiveDate())
	case SortByAddedAt:
		r = a.AddedAt.Compare(b.AddedAt)
	case SortByModifiedAt:
		r = a.ModifiedAt.Compare(b.ModifiedAt)
	case SortByCameraBrand:
		r = strings.Compare(a.CameraBrand, b.CameraBrand)
	case SortByID:
		r = strings.Compare(a.ID, b.ID)
	}
	if c.Order == SortDesc {
		r = -r
	}
	return r
}

// Get returns the photo with the given identity.
func (s *FileStorage) Get(id string) (*Photo, error) {
	if err := s.ensureBuilt(); err != nil {
		return nil, err
	}

	p, ok := s.idx.photos[id]
	if !ok {
		return nil, fmt.Errorf("%w: no photo with id %s", ErrNotFound, id)
	}
	return p, nil
}

// GetMany returns photos in the order requested. It fails on the first
// missing identity without returning a partial list.
func (s *FileStorage) GetMany(ids []string) ([]*Photo, error) {
	if err := s.ensureBuilt(); err != nil {
		return nil, err
	}

	photos := make([]*Photo, 0, len(ids))
	for _, id := range ids {
		p, ok := s.idx.photos[id]
		if !ok {
			return nil, fmt.Errorf("%w: no photo with id %s", ErrNotFound, id)
		}
		photos = append(photos, p)
	}
	return photos, nil
}

// List returns photos matching every filter, ordered by sorts, then paged
// with offset and limit.
//
// Without filters all photos are considered. Sorts compare on the first
// criterion and fall through to later ones on ties; photos that tie on every
// criterion keep index order. A limit of zero yields an empty page.
func (s *FileStorage) List(filters []Filter, sorts []Sort, limit, offset int) ([]*Photo, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidInput)
	}
	for _, f := range filters {
		if err := f.validate(); err != nil {
			return nil, err
		}
	}
	for _, c := range sorts {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}

	if err := s.ensureBuilt(); err != nil {
		return nil, err
	}

	photos := filterPhotos(s.idx.ordered(), filters)
	if len(sorts) > 0 {
		sortPhotos(photos, sorts)
	}
	return page(photos, limit, offset), nil
}

// filterPhotos keeps the photos accepted by every filter. Evaluation of a
// photo stops at the first filter that rejects it.
func filterPhotos(photos []*Photo, filters []Filter) []*Photo {
	if len(filters) == 0 {
		return photos
	}

	kept := make([]*Photo, 0, len(photos))
	for _, p := range photos {
		accepted := true
		for _, f := range filters {
			if !f.match(p) {
				accepted = false
				break
			}
		}
		if accepted {
			kept = append(kept, p)
		}
	}
	return kept
}

func sortPhotos(photos []*Photo, sorts []Sort) {
	slices.SortStableFunc(photos, func(a, b *Photo) int {
		for _, c := range sorts {
			if r := c.compare(a, b); r != 0 {
				return r
			}
		}
		return 0
	})
}

func page(photos []*Photo, limit, offset int) []*Photo {
	if offset >= len(photos) {
		return []*Photo{}
	}
	end := offset + min(limit, len(photos)-offset)
	return photos[offset:end]
}

// Search returns photos whose relative directory and file name contain term
// (case-sensitive), in index order. An empty term matches nothing.
func (s *FileStorage) Search(term string, collectionIDs []string) ([]*Photo, error) {
	if err := s.ensureBuilt(); err != nil {
		return nil, err
	}

	results := []*Photo{}
	if term == "" || !s.inCollections(collectionIDs) {
		return results, nil
	}

	for _, id := range s.idx.order {
		if strings.Contains(s.idx.entries[id].RelativePath(), term) {
			results = append(results, s.idx.photos[id])
		}
	}
	return results, nil
}
