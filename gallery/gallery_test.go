package gallery

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/photo-portfolio/errs"
	"github.com/rpupo63/photo-portfolio/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

var (
	tagBeach    = models.Tag{ID: uuid.New(), Name: "beach"}
	tagSunset   = models.Tag{ID: uuid.New(), Name: "sunset"}
	tagMountain = models.Tag{ID: uuid.New(), Name: "mountain"}
)

// scenarioPhotos: {beach}, {beach,sunset} in Italy, {mountain}.
func scenarioPhotos() []*models.Photo {
	return []*models.Photo{
		{ID: uuid.New(), Title: "one", Tags: []models.Tag{tagBeach}, Location: strPtr("Nice, France")},
		{ID: uuid.New(), Title: "two", Tags: []models.Tag{tagBeach, tagSunset}, Location: strPtr("Amalfi, Italy")},
		{ID: uuid.New(), Title: "three", Tags: []models.Tag{tagMountain}},
	}
}

func TestApply_ScenarioA(t *testing.T) {
	photos := scenarioPhotos()

	byBeach := Apply(photos, []Filter{TagFilter("beach")})
	assert.Equal(t, []*models.Photo{photos[0], photos[1]}, byBeach)

	narrowed := Apply(photos, []Filter{TagFilter("beach"), LocationFilter("Italy")})
	assert.Equal(t, []*models.Photo{photos[1]}, narrowed)
}

func TestApply_CaseInsensitive(t *testing.T) {
	photos := scenarioPhotos()

	assert.Len(t, Apply(photos, []Filter{TagFilter("BEACH")}), 2)
	assert.Len(t, Apply(photos, []Filter{LocationFilter("italy")}), 1)
}

func TestApply_EmptyFiltersIsIdentity(t *testing.T) {
	photos := scenarioPhotos()
	assert.Equal(t, photos, Apply(photos, nil))
}

func TestApply_Idempotent(t *testing.T) {
	photos := scenarioPhotos()
	filters := []Filter{TagFilter("beach"), LocationFilter("a")}

	once := Apply(photos, filters)
	assert.Equal(t, once, Apply(once, filters))
}

func TestApply_LocationFilterSkipsNullLocation(t *testing.T) {
	photos := scenarioPhotos()
	assert.NotContains(t, Apply(photos, []Filter{LocationFilter("")}), photos[2])
}

func TestFilterListOperations(t *testing.T) {
	filters := AddFilter(nil, TagFilter("beach"))
	filters = AddFilter(filters, TagFilter("beach"))
	assert.Len(t, filters, 2, "AddFilter does not deduplicate")

	filters = RemoveFilter(filters, 0)
	assert.Len(t, filters, 1)
	assert.Len(t, RemoveFilter(filters, 5), 1)

	filters = ToggleTag(filters, "Beach")
	assert.Empty(t, filters)
	filters = ToggleTag(filters, "sunset")
	require.Len(t, filters, 1)
	assert.Equal(t, "Sunset", filters[0].Label)
}

func TestFiltersFromQuery(t *testing.T) {
	filters := FiltersFromQuery([]string{"beach", " "}, []string{"Italy"})
	assert.Equal(t, []Filter{TagFilter("beach"), LocationFilter("Italy")}, filters)
}

func TestSuggest_ShortQuery(t *testing.T) {
	assert.Empty(t, Suggest(scenarioPhotos(), "b", nil))
	assert.Empty(t, Suggest(scenarioPhotos(), "  ", nil))
}

func TestSuggest_OrderAndCounts(t *testing.T) {
	photos := scenarioPhotos()
	photos[2].Location = strPtr("Italy")

	got := Suggest(photos, "it", nil)

	require.Len(t, got, 2)
	assert.Equal(t, Filter{Type: FilterLocation, Value: "Italy", Label: "Italy", Count: 2}, got[0])
	assert.Equal(t, "Amalfi, Italy", got[1].Value, "full location equal to an emitted country is dropped")
}

func TestSuggest_TagsFirstCapitalised(t *testing.T) {
	photos := scenarioPhotos()
	photos[2].Location = strPtr("Sunset Boulevard, USA")

	got := Suggest(photos, "sun", nil)

	require.Len(t, got, 2)
	assert.Equal(t, Filter{Type: FilterTag, Value: "sunset", Label: "Sunset", Count: 1}, got[0])
	assert.Equal(t, FilterLocation, got[1].Type)
}

func TestSuggest_ExcludesActiveAndZeroCounts(t *testing.T) {
	photos := scenarioPhotos()
	active := []Filter{TagFilter("BEACH")}

	for _, s := range Suggest(photos, "ea", active) {
		assert.False(t, IsActive(active, s))
	}

	// mountain cannot co-occur with beach, so it has no count
	assert.Empty(t, Suggest(photos, "mount", active))
}

func TestSuggest_DropsCandidatesThatWouldEmptyTheGallery(t *testing.T) {
	photos := []*models.Photo{
		{ID: uuid.New(), Tags: []models.Tag{{ID: uuid.New(), Name: "beach"}}, Location: strPtr("Rome, Italy")},
		{ID: uuid.New(), Tags: []models.Tag{{ID: uuid.New(), Name: "snow"}, {ID: uuid.New(), Name: "canoe"}}, Location: strPtr("Oslo, Norway")},
		{ID: uuid.New(), Tags: []models.Tag{{ID: uuid.New(), Name: "sand"}}},
	}

	got := Suggest(photos, "an", []Filter{TagFilter("snow")})
	require.Len(t, got, 1)
	assert.Equal(t, "canoe", got[0].Value)
	assert.Equal(t, 1, got[0].Count)

	// without the snow filter "sand" matches a photo again
	assert.Len(t, Suggest(photos, "an", nil), 2)
}

func TestSuggest_Capped(t *testing.T) {
	var photos []*models.Photo
	for i := 0; i < 20; i++ {
		photos = append(photos, &models.Photo{
			ID:   uuid.New(),
			Tags: []models.Tag{{ID: uuid.New(), Name: "tag" + string(rune('a'+i))}},
		})
	}
	assert.Len(t, Suggest(photos, "tag", nil), MaxSuggestions)
}

func TestNewCollection_Dedupes(t *testing.T) {
	p := &models.Photo{ID: uuid.New(), Tags: []models.Tag{tagBeach, tagBeach, tagSunset}}
	q := &models.Photo{ID: uuid.New(), Tags: []models.Tag{tagSunset}}

	c := NewCollection([]*models.Photo{p, q, p})

	require.Len(t, c.Photos, 2)
	assert.Len(t, c.Photos[0].Tags, 2)
	assert.Len(t, p.Tags, 3, "input is not modified")
	assert.Equal(t, []models.Tag{tagBeach, tagSunset}, c.AllTags)
	assert.Equal(t, 2, c.TagCount(&tagSunset))
	assert.Equal(t, 2, c.TagCount(nil))
}

func TestParseSortKey(t *testing.T) {
	k, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortDateTaken, k)

	k, err = ParseSortKey("random")
	require.NoError(t, err)
	assert.Equal(t, SortRandom, k)

	_, err = ParseSortKey("title")
	assert.True(t, errs.IsInvalidFieldError(err))
}

func TestSort_DateTakenFallsBackToCreatedAt(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := &models.Photo{ID: uuid.New(), CreatedAt: base, DateTaken: timePtr(base.Add(-48 * time.Hour))}
	b := &models.Photo{ID: uuid.New(), CreatedAt: base.Add(-24 * time.Hour)}
	c := &models.Photo{ID: uuid.New(), CreatedAt: base.Add(-72 * time.Hour), DateTaken: timePtr(base.Add(time.Hour))}
	in := []*models.Photo{a, b, c}

	got := Sort(in, SortDateTaken, 0)

	assert.Equal(t, []*models.Photo{c, b, a}, got)
	assert.Equal(t, []*models.Photo{a, b, c}, in, "input is not reordered")
	for i := 1; i < len(got); i++ {
		assert.False(t, captureTime(got[i]).After(captureTime(got[i-1])))
	}
}

func TestSort_DateAdded(t *testing.T) {
	base := time.Now()
	a := &models.Photo{ID: uuid.New(), CreatedAt: base}
	b := &models.Photo{ID: uuid.New(), CreatedAt: base.Add(time.Minute)}

	assert.Equal(t, []*models.Photo{b, a}, Sort([]*models.Photo{a, b}, SortDateAdded, 0))
}

func TestSort_LocationNullLast(t *testing.T) {
	a := &models.Photo{ID: uuid.New(), Location: strPtr("Rome, Italy")}
	b := &models.Photo{ID: uuid.New()}
	c := &models.Photo{ID: uuid.New(), Location: strPtr("Nice, France")}

	assert.Equal(t, []*models.Photo{c, a, b}, Sort([]*models.Photo{a, b, c}, SortLocation, 0))
}

func TestSort_TiesBrokenByID(t *testing.T) {
	ts := time.Now()
	a := &models.Photo{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), CreatedAt: ts}
	b := &models.Photo{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), CreatedAt: ts}

	assert.Equal(t, []*models.Photo{b, a}, Sort([]*models.Photo{a, b}, SortDateAdded, 0))
	assert.Equal(t, []*models.Photo{b, a}, Sort([]*models.Photo{a, b}, SortLocation, 0))
}

func TestSort_RandomIsStableForSeed(t *testing.T) {
	var photos []*models.Photo
	for i := 0; i < 30; i++ {
		photos = append(photos, &models.Photo{ID: uuid.New()})
	}
	reversed := make([]*models.Photo, len(photos))
	for i, p := range photos {
		reversed[len(photos)-1-i] = p
	}

	first := Sort(photos, SortRandom, 42)
	assert.Equal(t, first, Sort(photos, SortRandom, 42))
	assert.Equal(t, first, Sort(reversed, SortRandom, 42), "order depends on the set, not the input order")
	assert.ElementsMatch(t, photos, first)
	assert.NotEqual(t, first, Sort(photos, SortRandom, 43))
}

func TestCursor_Wraparound(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	c := NewCursor(ids)

	require.NoError(t, c.Open(2))
	c.Next()
	assert.Equal(t, 0, c.Index())
	c.Prev()
	assert.Equal(t, 2, c.Index())

	prev, next, ok := c.Neighbors()
	require.True(t, ok)
	assert.Equal(t, ids[1], prev)
	assert.Equal(t, ids[0], next)
}

func TestCursor_OpenValidatesIndex(t *testing.T) {
	c := NewCursor([]uuid.UUID{uuid.New()})
	assert.Error(t, c.Open(1))
	assert.Error(t, c.Open(-1))
	assert.False(t, c.IsOpen())
	assert.Error(t, c.OpenAt(uuid.New()))
}

func TestCursor_HandleKey(t *testing.T) {
	c := NewCursor([]uuid.UUID{uuid.New(), uuid.New()})

	assert.False(t, c.HandleKey(KeyNext), "ignored while closed")

	require.NoError(t, c.Open(0))
	assert.True(t, c.HandleKey(KeyNext))
	assert.Equal(t, 1, c.Index())
	assert.True(t, c.HandleKey(KeyPrev))
	assert.Equal(t, 0, c.Index())
	assert.False(t, c.HandleKey("Enter"))
	assert.True(t, c.HandleKey(KeyClose))
	assert.False(t, c.IsOpen())
}

func TestCursor_SetListRevalidates(t *testing.T) {
	a, b, c3, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	c := NewCursor([]uuid.UUID{a, b, c3, d})
	require.NoError(t, c.OpenAt(c3))

	c.SetList([]uuid.UUID{c3, a})
	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, c3, cur, "same photo kept when still listed")
	assert.Equal(t, 0, c.Index())

	require.NoError(t, c.Open(1))
	c.SetList([]uuid.UUID{b})
	assert.Equal(t, 0, c.Index(), "clamped to the last index")

	c.SetList(nil)
	assert.False(t, c.IsOpen())
}

func TestParseTagNames(t *testing.T) {
	assert.Equal(t, []string{"beach", "Sunset"}, ParseTagNames(" beach, ,Sunset,BEACH,"))
	assert.Empty(t, ParseTagNames(""))
}

func TestNewSeedFitsJSONNumber(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.Less(t, NewSeed(), uint64(1<<53))
	}
}
