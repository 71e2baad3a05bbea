package images

import (
	"bytes"
	"image"
)

// Result is a downloaded image ready for display.
type Result struct {
	URL         string
	ContentType string
	// Data keeps the raw bytes; animated images are displayed from them as is.
	Data     []byte
	Image    image.Image
	Animated bool
	Width    int
	Height   int
}

var gifMagic = [][]byte{[]byte("GIF87a"), []byte("GIF89a")}

// IsGIF sniffs the GIF signature at the start of data.
func IsGIF(data []byte) bool {
	for _, magic := range gifMagic {
		if bytes.HasPrefix(data, magic) {
			return true
		}
	}
	return false
}
