package imaging

import (
	"bytes"
	"testing"
)

func TestSniff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{name: "png", data: []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, want: FormatPNG},
		{name: "jpeg", data: []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}, want: FormatJPEG},
		{name: "gif87a", data: []byte("GIF87a trailing"), want: FormatGIF},
		{name: "gif89a", data: []byte("GIF89a trailing"), want: FormatGIF},
		{name: "webp", data: []byte("RIFF\x10\x00\x00\x00WEBPVP8 "), want: FormatWebP},
		{name: "riff without webp marker", data: []byte("RIFF\x10\x00\x00\x00WAVEfmt "), want: FormatUnknown},
		{name: "webp marker past 12 bytes", data: []byte("RIFF\x10\x00\x00\x00xxxxxWEBP"), want: FormatUnknown},
		{name: "empty", data: nil, want: FormatUnknown},
		{name: "short png prefix", data: []byte{0x89, 0x50}, want: FormatUnknown},
		{name: "text", data: []byte("hello world"), want: FormatUnknown},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Sniff(tt.data); got != tt.want {
				t.Fatalf("Sniff() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSniffPNGIgnoresTrailer(t *testing.T) {
	t.Parallel()

	// The format is a pure function of the leading bytes: any trailer,
	// any length.
	for _, size := range []int{0, 1, 100, 5000} {
		data := append([]byte{0x89, 0x50, 0x4E, 0x47}, bytes.Repeat([]byte{0xAB}, size)...)
		if got := Sniff(data); got != FormatPNG {
			t.Fatalf("Sniff with %d trailing bytes = %q, want png", size, got)
		}
	}
}

func TestFormatExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format Format
		want   string
	}{
		{FormatPNG, "png"},
		{FormatJPEG, "jpeg"},
		{FormatGIF, "gif"},
		{FormatWebP, "webp"},
		{FormatUnknown, "png"},
	}
	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("Extension(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}
