package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/tidwall/btree"
)

// QuantityByYear counts photos per effective-date year, largest count first.
func (s *FileStorage) QuantityByYear(collectionIDs []string) ([]*Quantity, error) {
	return s.quantities(collectionIDs, true, strconv.Itoa, func(t time.Time) (int, bool) {
		return t.Year(), true
	})
}

// QuantityByMonth counts photos per month of year, smallest count first.
func (s *FileStorage) QuantityByMonth(year int, collectionIDs []string) ([]*Quantity, error) {
	return s.quantities(collectionIDs, false, twoDigits, func(t time.Time) (int, bool) {
		return int(t.Month()), t.Year() == year
	})
}

// QuantityByDay counts photos per day of month in year, smallest count first.
func (s *FileStorage) QuantityByDay(month, year int, collectionIDs []string) ([]*Quantity, error) {
	return s.quantities(collectionIDs, false, twoDigits, func(t time.Time) (int, bool) {
		return t.Day(), t.Year() == year && int(t.Month()) == month
	})
}

// quantities buckets every photo's effective date with bucket, which returns
// the bucket value and whether the photo is counted at all. Buckets with equal
// counts stay in ascending value order.
func (s *FileStorage) quantities(collectionIDs []string, descending bool, label func(int) string, bucket func(time.Time) (int, bool)) ([]*Quantity, error) {
	if err := s.ensureBuilt(); err != nil {
		return nil, err
	}
	if !s.inCollections(collectionIDs) {
		return []*Quantity{}, nil
	}

	counts := btree.NewMap[int, int](0)
	for _, id := range s.idx.order {
		value, ok := bucket(s.idx.photos[id].EffectiveDate())
		if !ok {
			continue
		}
		n, _ := counts.Get(value)
		counts.Set(value, n+1)
	}

	quantities := make([]*Quantity, 0, counts.Len())
	counts.Scan(func(value, count int) bool {
		quantities = append(quantities, &Quantity{Label: label(value), Value: value, Count: count})
		return true
	})

	slices.SortStableFunc(quantities, func(a, b *Quantity) int {
		if descending {
			return cmp.Compare(b.Count, a.Count)
		}
		return cmp.Compare(a.Count, b.Count)
	})
	return quantities, nil
}

func twoDigits(v int) string {
	return fmt.Sprintf("%02d", v)
}
