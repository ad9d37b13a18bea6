package gallery

import (
	"bytes"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/rpupo63/photo-portfolio/errs"
	"github.com/rpupo63/photo-portfolio/models"
)

type SortKey string

const (
	SortDateTaken SortKey = "date-taken"
	SortDateAdded SortKey = "date-added"
	SortLocation  SortKey = "location"
	SortRandom    SortKey = "random"
)

var sortKeys = []SortKey{SortDateTaken, SortDateAdded, SortLocation, SortRandom}

// ParseSortKey maps a query value to a SortKey; empty selects SortDateTaken.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortDateTaken, nil
	}
	for _, k := range sortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", errs.NewInvalidFieldError("sort", "must be one of date-taken, date-added, location, random")
}

// NewSeed picks the seed a client keeps echoing while random order is selected.
// It stays below 2^53 so it survives a round trip through a JSON number.
func NewSeed() uint64 {
	return rand.Uint64N(1 << 53)
}

// Sort returns a sorted copy of photos. Every key is a total order: ties fall
// back to the photo id. SortRandom is a Fisher-Yates shuffle driven by seed,
// so the same seed over the same photos always yields the same order.
func Sort(photos []*models.Photo, key SortKey, seed uint64) []*models.Photo {
	out := make([]*models.Photo, len(photos))
	copy(out, photos)

	switch key {
	case SortDateAdded:
		sort.SliceStable(out, func(i, j int) bool {
			return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i], out[j])
		})
	case SortLocation:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].Location, out[j].Location
			switch {
			case a == nil && b == nil:
				return idLess(out[i], out[j])
			case a == nil:
				return false
			case b == nil:
				return true
			case *a != *b:
				return *a < *b
			}
			return idLess(out[i], out[j])
		})
	case SortRandom:
		sort.Slice(out, func(i, j int) bool { return idLess(out[i], out[j]) })
		r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return newerFirst(captureTime(out[i]), captureTime(out[j]), out[i], out[j])
		})
	}
	return out
}

// captureTime falls back to the ingestion time when no capture date was extracted.
func captureTime(p *models.Photo) time.Time {
	if p.DateTaken != nil {
		return *p.DateTaken
	}
	return p.CreatedAt
}

func newerFirst(a, b time.Time, pa, pb *models.Photo) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return idLess(pa, pb)
}

func idLess(a, b *models.Photo) bool {
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}
