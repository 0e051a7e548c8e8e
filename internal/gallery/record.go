package gallery

import (
	"encoding/base64"
	"mime"
	"strconv"
	"strings"
	"time"
)

// DateAddedLayout is the textual form of ImageRecord.DateAdded, UTC with milliseconds.
const DateAddedLayout = "2006-01-02T15:04:05.000Z"

// ImageRecord is a single gallery entry. The JSON field names are the persisted layout.
type ImageRecord struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Size      string `json:"size"`
	DataURL   string `json:"dataUrl"`
	DateAdded string `json:"dateAdded"`
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders a byte count with base 1024 units, rounded to two decimals
// without trailing zeros: 0 -> "0 Bytes", 1536 -> "1.5 KB", 1048576 -> "1 MB".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	value := float64(bytes)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}

	rounded, err := strconv.ParseFloat(strconv.FormatFloat(value, 'f', 2, 64), 64)
	if err != nil {
		rounded = value
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + sizeUnits[unit]
}

// mediaType returns the lower-cased media type of a declared content type without parameters.
func mediaType(contentType string) string {
	parsed, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return parsed
}

// IsImageContentType reports whether a declared content type names an image.
func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(mediaType(contentType), "image/")
}

// EncodeDataURL embeds data into a base64 data URL carrying its media type.
func EncodeDataURL(contentType string, data []byte) string {
	var b strings.Builder
	b.Grow(len("data:;base64,") + len(contentType) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(mediaType(contentType))
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

func formatDateAdded(t time.Time) string {
	return t.UTC().Format(DateAddedLayout)
}
