package imageurl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "empty input",
			raw:      "",
			expected: "",
		},
		{
			name:     "protocol relative with size suffix and avif",
			raw:      "//a.com/img_220x220.avif",
			expected: "https://a.com/img.jpg",
		},
		{
			name:     "already canonical",
			raw:      "https://ae01.alicdn.com/kf/photo.jpg",
			expected: "https://ae01.alicdn.com/kf/photo.jpg",
		},
		{
			name:     "size suffix after png",
			raw:      "https://ae01.alicdn.com/kf/photo.png_640x640q90.png",
			expected: "https://ae01.alicdn.com/kf/photo.png",
		},
		{
			name:     "avif without size suffix",
			raw:      "https://ae01.alicdn.com/kf/photo.jpg.avif",
			expected: "https://ae01.alicdn.com/kf/photo.jpg",
		},
		{
			name:     "no extension at all",
			raw:      "https://ae01.alicdn.com/kf/photo",
			expected: "https://ae01.alicdn.com/kf/photo.jpg",
		},
		{
			name:     "webp kept",
			raw:      "//ae01.alicdn.com/kf/photo.webp",
			expected: "https://ae01.alicdn.com/kf/photo.webp",
		},
		{
			name:     "uppercase extension recognized",
			raw:      "https://ae01.alicdn.com/kf/photo.JPG",
			expected: "https://ae01.alicdn.com/kf/photo.JPG",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(tt.raw))
		})
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"//a.com/img_220x220.avif",
		"https://ae01.alicdn.com/kf/photo.png_640x640.png_.avif",
		"https://ae01.alicdn.com/kf/photo",
		"//cdn.example.com/x.webp",
	}

	for _, raw := range inputs {
		once := Resolve(raw)
		assert.Equal(t, once, Resolve(once), "input %q", raw)
	}
}
