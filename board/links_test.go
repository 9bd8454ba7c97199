package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSongLinks(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "track",
			content: "check this out https://open.spotify.com/track/abc123",
			want:    []string{"https://open.spotify.com/track/abc123"},
		},
		{
			name:    "tracks before short links",
			content: "https://spotify.link/xY_z-1 and https://open.spotify.com/track/T1?si=42",
			want:    []string{"https://open.spotify.com/track/T1", "https://spotify.link/xY_z-1"},
		},
		{
			name:    "duplicates",
			content: "https://open.spotify.com/track/a https://open.spotify.com/track/a https://open.spotify.com/track/b",
			want:    []string{"https://open.spotify.com/track/a", "https://open.spotify.com/track/b"},
		},
		{
			name:    "albums do not qualify",
			content: "https://open.spotify.com/album/abc https://youtube.com/watch?v=1",
		},
		{
			name: "empty",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractSongLinks(tc.content))
		})
	}
}

func TestStripSongLinks(t *testing.T) {
	assert.Equal(t, "check this out", StripSongLinks("check this out https://open.spotify.com/track/abc123"))
	assert.Equal(t, "two songs", StripSongLinks("two https://open.spotify.com/track/a?si=xyz   songs https://spotify.link/q"))
	assert.Equal(t, "line one\nline two", StripSongLinks("  line one https://spotify.link/abc  \nline two"))
	assert.Empty(t, StripSongLinks("https://open.spotify.com/track/abc123"))
}

func TestHasAllowedLink(t *testing.T) {
	assert.True(t, HasAllowedLink("listen https://spotify.link/abc"))
	assert.False(t, HasAllowedLink("listen https://open.spotify.com/playlist/abc"))
}
