package metadata

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utf16le(s string) []byte {
	var b []byte
	for _, r := range s {
		b = append(b, byte(r), byte(r>>8))
	}
	return append(b, 0, 0)
}

func TestDecodeXPKeywords(t *testing.T) {
	kw, err := DecodeXPKeywords(utf16le("beach; sunset;;Italy"))
	require.NoError(t, err)
	assert.Equal(t, []string{"beach", "sunset", "Italy"}, kw)
}

func TestDecodeXPKeywords_OddLength(t *testing.T) {
	raw := append(utf16le("rome"), 0)
	kw, err := DecodeXPKeywords(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"rome"}, kw)
}

func TestSplitKeywords(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitKeywords(" a ;b, c ,"))
	assert.Nil(t, SplitKeywords(" ; "))
}

func TestParseExifTime(t *testing.T) {
	got, ok := ParseExifTime("2023:07:14 18:32:05")
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, 7, 14, 18, 32, 5, 0, time.UTC), got)

	_, ok = ParseExifTime("0000:00:00 00:00:00")
	assert.False(t, ok)
	_, ok = ParseExifTime("2023-07-14")
	assert.False(t, ok)
	_, ok = ParseExifTime("")
	assert.False(t, ok)
}

func TestExtract_NoExif(t *testing.T) {
	_, err := NewExtractor().Extract(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func extractFixture(t *testing.T, name string) Metadata {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", name))
	require.NoError(t, err)
	defer f.Close()

	m, err := NewExtractor().Extract(f)
	require.NoError(t, err)
	return m
}

func TestExtract_GPSDatesAndKeywords(t *testing.T) {
	m := extractFixture(t, "gps_keywords.jpg")

	require.True(t, m.HasGPS())
	assert.InDelta(t, 41.9, *m.Latitude, 1e-9)
	assert.InDelta(t, 12.5, *m.Longitude, 1e-9)

	require.NotNil(t, m.CapturedAt)
	assert.Equal(t, time.Date(2023, 7, 14, 18, 32, 5, 0, time.UTC), *m.CapturedAt)

	assert.Equal(t, []string{"rome", "travel", "street"}, m.Keywords)
	assert.Equal(t, "FUJIFILM", m.Make)
	assert.Equal(t, "X100V", m.Model)
}

func TestExtract_CaptureDateFallbacks(t *testing.T) {
	digitized := extractFixture(t, "digitized_date.jpg")
	require.NotNil(t, digitized.CapturedAt)
	assert.Equal(t, time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC), *digitized.CapturedAt)

	plain := extractFixture(t, "datetime_only.jpg")
	require.NotNil(t, plain.CapturedAt)
	assert.Equal(t, time.Date(2019, 5, 2, 10, 0, 0, 0, time.UTC), *plain.CapturedAt)
	assert.False(t, plain.HasGPS())
	assert.Empty(t, plain.Keywords)
	assert.Equal(t, "Canon", plain.Make)
}

func TestMetadataMap(t *testing.T) {
	lat, lon := 41.9, 12.5
	m := Metadata{Latitude: &lat, Longitude: &lon, Make: "FUJIFILM", Keywords: []string{"rome"}}

	got := m.Map()
	assert.Equal(t, "FUJIFILM", got["camera_make"])
	assert.Equal(t, 41.9, got["latitude"])
	assert.NotContains(t, got, "camera_model")
	assert.True(t, m.HasGPS())
	assert.Empty(t, Metadata{}.Map())
}

func TestValidCoordinate(t *testing.T) {
	assert.True(t, validCoordinate(41.9, 12.5))
	assert.False(t, validCoordinate(91, 0))
	assert.False(t, validCoordinate(0, -181))
}
