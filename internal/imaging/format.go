package imaging

import "bytes"

// Format identifies the wire format of an image payload.
type Format string

const (
	FormatPNG     Format = "png"
	FormatJPEG    Format = "jpeg"
	FormatGIF     Format = "gif"
	FormatWebP    Format = "webp"
	FormatUnknown Format = "unknown"
)

var (
	pngSignature  = []byte{0x89, 0x50, 0x4E, 0x47}
	jpegSignature = []byte{0xFF, 0xD8, 0xFF}
	gif87aHeader  = []byte("GIF87a")
	gif89aHeader  = []byte("GIF89a")
	riffHeader    = []byte("RIFF")
	webpMarker    = []byte("WEBP")
)

// Sniff detects the image format from the leading bytes of data.
// It is a total function: any buffer, including an empty one, maps to a
// Format. A buffer shorter than a signature simply fails that check and
// falls through to the next. Checks run in fixed order, first match wins.
func Sniff(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, pngSignature):
		return FormatPNG
	case bytes.HasPrefix(data, jpegSignature):
		return FormatJPEG
	case bytes.HasPrefix(data, gif87aHeader), bytes.HasPrefix(data, gif89aHeader):
		return FormatGIF
	case bytes.HasPrefix(data, riffHeader) && bytes.Contains(prefix(data, 12), webpMarker):
		return FormatWebP
	default:
		return FormatUnknown
	}
}

// Extension returns the file extension for the format, without the dot.
// Unknown formats fall back to png so staged files always carry an
// image extension the downstream agent recognizes.
func (f Format) Extension() string {
	if f == FormatUnknown {
		return string(FormatPNG)
	}
	return string(f)
}

func (f Format) String() string { return string(f) }

func prefix(data []byte, n int) []byte {
	if len(data) < n {
		return data
	}
	return data[:n]
}
