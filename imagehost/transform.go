package imagehost

import (
	"strconv"
	"strings"
)

const uploadSegment = "/upload/"

// Transform describes an on-the-fly delivery transformation.
type Transform struct {
	Width   int
	Height  int
	Crop    string
	Format  string
	Quality string
}

func (t Transform) directives() string {
	var parts []string
	if t.Width > 0 {
		parts = append(parts, "w_"+strconv.Itoa(t.Width))
	}
	if t.Height > 0 {
		parts = append(parts, "h_"+strconv.Itoa(t.Height))
	}
	if t.Crop != "" {
		parts = append(parts, "c_"+t.Crop)
	}
	if t.Format != "" {
		parts = append(parts, "f_"+t.Format)
	}
	if t.Quality != "" {
		parts = append(parts, "q_"+t.Quality)
	}
	return strings.Join(parts, ",")
}

var (
	Thumb = Transform{Width: 600, Height: 600, Crop: "fill", Format: "auto", Quality: "auto"}
	Full  = Transform{Width: 2000, Format: "auto", Quality: "auto"}
)

// TransformURL inserts the transformation right after /upload/. URLs without
// an /upload/ segment are not transformable and come back unchanged.
func TransformURL(url string, t Transform) string {
	i := strings.Index(url, uploadSegment)
	d := t.directives()
	if i < 0 || d == "" {
		return url
	}
	cut := i + len(uploadSegment)
	return url[:cut] + d + "/" + url[cut:]
}

func ThumbURL(url string) string { return TransformURL(url, Thumb) }

func FullURL(url string) string { return TransformURL(url, Full) }
