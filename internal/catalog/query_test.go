package catalog_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"photocat/internal/catalog"
)

func TestFileStorage_Get(t *testing.T) {
	f := newFixture(t)
	seeded := seedCollection(t, f)

	t.Run("found", func(t *testing.T) {
		id := seeded["2022/coffee-break.jpg"]
		p, err := f.storage.Get(id)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if p.ID != id {
			t.Errorf("Get() ID = %s, want %s", p.ID, id)
		}
		if p.CameraBrand != "ASUS" {
			t.Errorf("CameraBrand = %q, want ASUS", p.CameraBrand)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := f.storage.Get("00000000-0000-0000-0000-000000000000")
		if !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})
}

func TestFileStorage_GetMany(t *testing.T) {
	f := newFixture(t)
	seeded := seedCollection(t, f)

	t.Run("keeps requested order", func(t *testing.T) {
		want := idsOf(seeded, "2022/sunset.jpg", "2020/holiday.jpg", "2021/basketball.jpg")
		photos, err := f.storage.GetMany(want)
		if err != nil {
			t.Fatalf("GetMany() error = %v", err)
		}
		if got := ids(photos); !equalStrings(got, want) {
			t.Errorf("GetMany() = %v, want %v", got, want)
		}
	})

	t.Run("empty request", func(t *testing.T) {
		photos, err := f.storage.GetMany(nil)
		if err != nil {
			t.Fatalf("GetMany() error = %v", err)
		}
		if len(photos) != 0 {
			t.Errorf("got %d photos, want 0", len(photos))
		}
	})

	t.Run("missing id fails without partial result", func(t *testing.T) {
		photos, err := f.storage.GetMany([]string{seeded["2020/holiday.jpg"], "missing"})
		if !errors.Is(err, catalog.ErrNotFound) {
			t.Fatalf("GetMany() error = %v, want ErrNotFound", err)
		}
		if photos != nil {
			t.Errorf("GetMany() returned %d photos alongside the error", len(photos))
		}
	})
}

func TestFileStorage_List(t *testing.T) {
	f := newFixture(t)
	seeded := seedCollection(t, f)
	byDate := []catalog.Sort{{Field: catalog.SortByPhotoDate, Order: catalog.SortAsc}}

	tests := []struct {
		name    string
		filters []catalog.Filter
		sorts   []catalog.Sort
		limit   int
		offset  int
		want    []string
	}{
		{
			name:  "index order without sorts",
			limit: 3,
			want:  idsOf(seeded, "2020/football/goal.jpg", "2020/football/kickoff.jpg", "2020/holiday.jpg"),
		},
		{
			name:  "effective date ascending keeps ties in index order",
			sorts: byDate,
			limit: 100,
			want: idsOf(seeded,
				"2020/football/goal.jpg", "2020/football/kickoff.jpg", "2020/holiday.jpg",
				"2021/basketball.jpg", "2022/coffee-break.jpg", "2022/beach.jpg",
				"2022/family/dinner.jpg", "2022/sunset.jpg", "2022/family/Ball-game.jpg"),
		},
		{
			name:  "effective date descending",
			sorts: []catalog.Sort{{Field: catalog.SortByPhotoDate, Order: catalog.SortDesc}},
			limit: 2,
			want:  idsOf(seeded, "2022/family/Ball-game.jpg", "2022/family/dinner.jpg"),
		},
		{
			name: "first criterion is primary",
			sorts: []catalog.Sort{
				{Field: catalog.SortByCameraBrand},
				{Field: catalog.SortByPhotoDate, Order: catalog.SortDesc},
			},
			limit: 100,
			want: idsOf(seeded,
				"2022/family/Ball-game.jpg", "2022/coffee-break.jpg",
				"2022/family/dinner.jpg", "2022/sunset.jpg",
				"2022/beach.jpg", "2020/football/goal.jpg", "2020/football/kickoff.jpg",
				"2021/basketball.jpg", "2020/holiday.jpg"),
		},
		{
			name:   "offset and limit page the sorted result",
			sorts:  byDate,
			limit:  3,
			offset: 2,
			want:   idsOf(seeded, "2020/holiday.jpg", "2021/basketball.jpg", "2022/coffee-break.jpg"),
		},
		{
			name:   "offset past the end",
			limit:  10,
			offset: 9,
			want:   []string{},
		},
		{
			name:   "limit larger than any offset",
			limit:  math.MaxInt,
			offset: 1,
			want: idsOf(seeded,
				"2020/football/kickoff.jpg", "2020/holiday.jpg", "2021/basketball.jpg",
				"2022/beach.jpg", "2022/coffee-break.jpg", "2022/family/Ball-game.jpg",
				"2022/family/dinner.jpg", "2022/sunset.jpg"),
		},
		{
			name:   "maximum limit near the end",
			sorts:  byDate,
			limit:  math.MaxInt,
			offset: 7,
			want:   idsOf(seeded, "2022/sunset.jpg", "2022/family/Ball-game.jpg"),
		},
		{
			name:  "zero limit",
			limit: 0,
			want:  []string{},
		},
		{
			name:    "closed date range is inclusive",
			filters: []catalog.Filter{catalog.PhotoDateRangeFilter(date(2022, 3, 7), date(2022, 7, 20))},
			sorts:   byDate,
			limit:   100,
			want:    idsOf(seeded, "2022/coffee-break.jpg", "2022/beach.jpg"),
		},
		{
			name:    "open-ended date range",
			filters: []catalog.Filter{catalog.PhotoDateRangeFilter(date(2022, 7, 21), time.Time{})},
			limit:   100,
			want:    idsOf(seeded, "2022/family/Ball-game.jpg", "2022/family/dinner.jpg", "2022/sunset.jpg"),
		},
		{
			name: "filters are a conjunction",
			filters: []catalog.Filter{
				catalog.PhotoIDFilter(idsOf(seeded, "2020/holiday.jpg", "2022/beach.jpg", "2021/basketball.jpg")...),
				catalog.PhotoDateRangeFilter(date(2021, 1, 1), time.Time{}),
			},
			limit: 100,
			want:  idsOf(seeded, "2021/basketball.jpg", "2022/beach.jpg"),
		},
		{
			name:    "own collection",
			filters: []catalog.Filter{catalog.CollectionIDFilter(catalog.DefaultCollectionID)},
			limit:   100,
			want: idsOf(seeded,
				"2020/football/goal.jpg", "2020/football/kickoff.jpg", "2020/holiday.jpg",
				"2021/basketball.jpg", "2022/beach.jpg", "2022/coffee-break.jpg",
				"2022/family/Ball-game.jpg", "2022/family/dinner.jpg", "2022/sunset.jpg"),
		},
		{
			name:    "other collection",
			filters: []catalog.Filter{catalog.CollectionIDFilter("b2c7a1a0-0000-4000-8000-000000000000")},
			limit:   100,
			want:    []string{},
		},
		{
			name:    "added range containing the build time",
			filters: []catalog.Filter{catalog.AddedRangeFilter(date(2024, 1, 1), date(2024, 2, 1))},
			limit:   2,
			want:    idsOf(seeded, "2020/football/goal.jpg", "2020/football/kickoff.jpg"),
		},
		{
			name:    "added range before the build time",
			filters: []catalog.Filter{catalog.AddedRangeFilter(time.Time{}, date(2023, 12, 31))},
			limit:   100,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			photos, err := f.storage.List(tt.filters, tt.sorts, tt.limit, tt.offset)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if got := ids(photos); !equalStrings(got, tt.want) {
				t.Errorf("List() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("filter order does not change the result", func(t *testing.T) {
		a := catalog.PhotoDateRangeFilter(date(2020, 6, 1), date(2022, 7, 20))
		b := catalog.PhotoIDFilter(idsOf(seeded, "2020/holiday.jpg", "2022/beach.jpg", "2020/football/goal.jpg")...)

		forward, err := f.storage.List([]catalog.Filter{a, b}, byDate, 100, 0)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		reverse, err := f.storage.List([]catalog.Filter{b, a}, byDate, 100, 0)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if !equalStrings(ids(forward), ids(reverse)) {
			t.Errorf("results differ: %v vs %v", ids(forward), ids(reverse))
		}
		if len(forward) != 2 {
			t.Errorf("got %d photos, want 2", len(forward))
		}
	})
}

func TestFileStorage_ListInvalid(t *testing.T) {
	f := newFixture(t)
	seedCollection(t, f)

	tests := []struct {
		name    string
		filters []catalog.Filter
		sorts   []catalog.Sort
		limit   int
		offset  int
	}{
		{name: "negative limit", limit: -1},
		{name: "negative offset", limit: 1, offset: -1},
		{name: "unknown filter kind", filters: []catalog.Filter{{Kind: "rating"}}, limit: 1},
		{name: "inverted range", filters: []catalog.Filter{catalog.PhotoDateRangeFilter(date(2022, 1, 2), date(2022, 1, 1))}, limit: 1},
		{name: "unknown sort field", sorts: []catalog.Sort{{Field: "title"}}, limit: 1},
		{name: "unknown sort order", sorts: []catalog.Sort{{Field: catalog.SortByID, Order: "sideways"}}, limit: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.storage.List(tt.filters, tt.sorts, tt.limit, tt.offset)
			if !errors.Is(err, catalog.ErrInvalidInput) {
				t.Errorf("List() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestFileStorage_Search(t *testing.T) {
	f := newFixture(t)
	seeded := seedCollection(t, f)

	tests := []struct {
		name          string
		term          string
		collectionIDs []string
		want          []string
	}{
		{
			name: "matches directory and file names",
			term: "ball",
			want: idsOf(seeded, "2020/football/goal.jpg", "2020/football/kickoff.jpg", "2021/basketball.jpg"),
		},
		{
			name: "single match",
			term: "coffee",
			want: idsOf(seeded, "2022/coffee-break.jpg"),
		},
		{
			name: "case sensitive",
			term: "Ball",
			want: idsOf(seeded, "2022/family/Ball-game.jpg"),
		},
		{
			name: "directory component",
			term: "family/",
			want: idsOf(seeded, "2022/family/Ball-game.jpg", "2022/family/dinner.jpg"),
		},
		{
			name: "no match",
			term: "mountain",
			want: []string{},
		},
		{
			name: "empty term matches nothing",
			term: "",
			want: []string{},
		},
		{
			name:          "own collection",
			term:          "coffee",
			collectionIDs: []string{catalog.DefaultCollectionID},
			want:          idsOf(seeded, "2022/coffee-break.jpg"),
		},
		{
			name:          "other collection",
			term:          "coffee",
			collectionIDs: []string{"b2c7a1a0-0000-4000-8000-000000000000"},
			want:          []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			photos, err := f.storage.Search(tt.term, tt.collectionIDs)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if got := ids(photos); !equalStrings(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.term, got, tt.want)
			}
		})
	}
}

func TestSort_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sort    catalog.Sort
		wantErr bool
	}{
		{name: "photo date", sort: catalog.Sort{Field: catalog.SortByPhotoDate}},
		{name: "added at descending", sort: catalog.Sort{Field: catalog.SortByAddedAt, Order: catalog.SortDesc}},
		{name: "modified at ascending", sort: catalog.Sort{Field: catalog.SortByModifiedAt, Order: catalog.SortAsc}},
		{name: "camera brand", sort: catalog.Sort{Field: catalog.SortByCameraBrand}},
		{name: "id", sort: catalog.Sort{Field: catalog.SortByID}},
		{name: "unknown field", sort: catalog.Sort{Field: "title"}, wantErr: true},
		{name: "empty field", sort: catalog.Sort{}, wantErr: true},
		{name: "unknown order", sort: catalog.Sort{Field: catalog.SortByID, Order: "up"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sort.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, catalog.ErrInvalidInput) {
				t.Errorf("Validate() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}
