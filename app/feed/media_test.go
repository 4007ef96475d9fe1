package feed

import (
	"testing"
)

func TestExtractRawImagePriority(t *testing.T) {
	tests := []struct {
		name        string
		block       string
		description string
		expected    string
	}{
		{
			name:     "media content wins",
			block:    `<media:content url="https://cdn.example/media.jpg" /><enclosure url="https://cdn.example/enc.jpg" type="image/jpeg" />`,
			expected: "https://cdn.example/media.jpg",
		},
		{
			name:     "enclosure second",
			block:    `<enclosure url="https://cdn.example/enc.jpg" length="1000" type="image/jpeg" /><image url="https://cdn.example/generic.jpg" />`,
			expected: "https://cdn.example/enc.jpg",
		},
		{
			name:     "non-image enclosure skipped",
			block:    `<enclosure url="https://cdn.example/audio.mp3" length="1000" type="audio/mpeg" />`,
			expected: "",
		},
		{
			name:     "generic image tag third",
			block:    `<image url="https://cdn.example/generic.jpg" />`,
			expected: "https://cdn.example/generic.jpg",
		},
		{
			name:        "inline img last resort",
			block:       `<title>plain</title>`,
			description: `<p>Story body <img src="https://cdn.example/inline.jpg" alt="" /></p>`,
			expected:    "https://cdn.example/inline.jpg",
		},
		{
			name:     "nothing matches",
			block:    `<title>plain</title>`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractRawImage(tt.block, tt.description)
			if got != tt.expected {
				t.Errorf("extractRawImage() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestFirstImageShortCircuits(t *testing.T) {
	calls := 0
	got := firstImage(
		func() string { calls++; return "https://first.example/img.png" },
		func() string { calls++; return "https://second.example/img.png" },
	)

	if got != "https://first.example/img.png" {
		t.Errorf("expected first strategy to win, got %q", got)
	}
	if calls != 1 {
		t.Errorf("expected later strategies to be skipped, got %d calls", calls)
	}
}
