package metadata

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/text/encoding/unicode"
)

// xpKeywordsTag is the Windows XPKeywords tag in IFD0. goexif does not name it.
const xpKeywordsTag = 0x9c9e

const exifTimeLayout = "2006:01:02 15:04:05"

// Metadata is what could be read from a file's EXIF block. Every field is
// optional; a field that fails to decode is left empty.
type Metadata struct {
	Latitude   *float64
	Longitude  *float64
	CapturedAt *time.Time
	Keywords   []string
	Make       string
	Model      string
}

func (m Metadata) HasGPS() bool {
	return m.Latitude != nil && m.Longitude != nil
}

// Map renders the metadata for the photos.metadata jsonb column.
func (m Metadata) Map() map[string]interface{} {
	out := map[string]interface{}{}
	if m.Make != "" {
		out["camera_make"] = m.Make
	}
	if m.Model != "" {
		out["camera_model"] = m.Model
	}
	if len(m.Keywords) > 0 {
		out["keywords"] = m.Keywords
	}
	if m.HasGPS() {
		out["latitude"] = *m.Latitude
		out["longitude"] = *m.Longitude
	}
	return out
}

type Extractor struct {
	logger zerolog.Logger
}

func NewExtractor() *Extractor {
	return &Extractor{logger: log.With().Str("component", "metadata").Logger()}
}

// Extract decodes the EXIF block of r. An error means no EXIF block could be
// read at all; missing or malformed individual fields are skipped.
func (e *Extractor) Extract(r io.Reader) (Metadata, error) {
	x, err := exif.Decode(r)
	if err != nil {
		return Metadata{}, fmt.Errorf("decode exif: %w", err)
	}

	var m Metadata

	if lat, lon, err := x.LatLong(); err == nil && validCoordinate(lat, lon) {
		m.Latitude, m.Longitude = &lat, &lon
	} else if err != nil {
		e.logger.Debug().Err(err).Msg("no gps coordinates")
	}

	m.CapturedAt = captureTime(x)
	m.Make = stringField(x, exif.Make)
	m.Model = stringField(x, exif.Model)

	if raw := rawTag(x, xpKeywordsTag); raw != nil {
		kw, err := DecodeXPKeywords(raw)
		if err != nil {
			e.logger.Debug().Err(err).Msg("unreadable XPKeywords")
		}
		m.Keywords = kw
	}

	return m, nil
}

// captureTime prefers the original capture date, then the digitized
// (creation) date, then the generic DateTime field.
func captureTime(x *exif.Exif) *time.Time {
	for _, name := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTimeDigitized, exif.DateTime} {
		if t, ok := ParseExifTime(stringField(x, name)); ok {
			return &t
		}
	}
	return nil
}

func stringField(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}

func rawTag(x *exif.Exif, id uint16) []byte {
	if x.Tiff == nil {
		return nil
	}
	for _, dir := range x.Tiff.Dirs {
		for _, tag := range dir.Tags {
			if tag.Id == id && len(tag.Val) > 0 {
				return tag.Val
			}
		}
	}
	return nil
}

// ParseExifTime reads "2006:01:02 15:04:05". EXIF carries no zone, so the
// result is UTC. Zero dates written by some cameras are rejected.
func ParseExifTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "0000") {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(exifTimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DecodeXPKeywords decodes the UTF-16LE, NUL terminated XPKeywords value and
// splits it on semicolons.
func DecodeXPKeywords(raw []byte) ([]string, error) {
	if len(raw)%2 == 1 {
		raw = raw[:len(raw)-1]
	}
	decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("decode utf-16: %w", err)
	}
	return SplitKeywords(strings.TrimRight(string(decoded), "\x00")), nil
}

// SplitKeywords splits on semicolons or commas and drops blanks.
func SplitKeywords(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' }) {
		if kw := strings.TrimSpace(strings.Trim(part, "\x00")); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func validCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
