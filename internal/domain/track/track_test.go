package track

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrack_ArtistLine(t *testing.T) {
	tests := []struct {
		name     string
		artists  []string
		expected string
	}{
		{
			name:     "no artists",
			artists:  nil,
			expected: "",
		},
		{
			name:     "single artist",
			artists:  []string{"Kraftwerk"},
			expected: "Kraftwerk",
		},
		{
			name:     "multiple artists",
			artists:  []string{"Daft Punk", "Pharrell Williams", "Nile Rodgers"},
			expected: "Daft Punk, Pharrell Williams, Nile Rodgers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &Track{Artists: tt.artists}
			assert.Equal(t, tt.expected, tr.ArtistLine())
		})
	}
}

func TestURIs(t *testing.T) {
	tests := []struct {
		name     string
		tracks   []Track
		expected []string
	}{
		{
			name:     "empty list",
			tracks:   []Track{},
			expected: []string{},
		},
		{
			name: "preserves order",
			tracks: []Track{
				{ID: "a", URI: "spotify:track:a"},
				{ID: "b", URI: "spotify:track:b"},
				{ID: "c", URI: "spotify:track:c"},
			},
			expected: []string{"spotify:track:a", "spotify:track:b", "spotify:track:c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, URIs(tt.tracks))
		})
	}
}

func TestNewest(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		tracks   []Track
		expected time.Time
	}{
		{
			name:     "empty list returns zero time",
			tracks:   nil,
			expected: time.Time{},
		},
		{
			name: "single track",
			tracks: []Track{
				{ID: "a", AddedAt: base},
			},
			expected: base,
		},
		{
			name: "newest is not last",
			tracks: []Track{
				{ID: "a", AddedAt: base.Add(48 * time.Hour)},
				{ID: "b", AddedAt: base},
				{ID: "c", AddedAt: base.Add(24 * time.Hour)},
			},
			expected: base.Add(48 * time.Hour),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Newest(tt.tracks))
		})
	}
}
