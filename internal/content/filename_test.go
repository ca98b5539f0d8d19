package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilename(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantDate time.Time
		wantSlug string
		wantErr  bool
	}{
		{
			name:     "padded date",
			path:     "_posts/2019-01-02-cache-locality.markdown",
			wantDate: time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC),
			wantSlug: "cache-locality",
		},
		{
			name:     "unpadded month and day",
			path:     "_posts/2019-1-2-cache-locality.markdown",
			wantDate: time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC),
			wantSlug: "cache-locality",
		},
		{
			name:     "md extension",
			path:     "_posts/2017-8-12-big-o.md",
			wantDate: time.Date(2017, 8, 12, 0, 0, 0, 0, time.UTC),
			wantSlug: "big-o",
		},
		{
			name:     "slug containing digits",
			path:     "_posts/2016-7-22-simd-in-depth-part-2.markdown",
			wantDate: time.Date(2016, 7, 22, 0, 0, 0, 0, time.UTC),
			wantSlug: "simd-in-depth-part-2",
		},
		{
			name:    "no date prefix",
			path:    "_posts/about.markdown",
			wantErr: true,
		},
		{
			name:    "impossible calendar date",
			path:    "_posts/2019-2-30-oops.markdown",
			wantErr: true,
		},
		{
			name:    "month out of range",
			path:    "_posts/2019-13-1-oops.markdown",
			wantErr: true,
		},
		{
			name:    "wrong extension",
			path:    "_posts/2019-1-2-notes.txt",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, slug, err := ParseFilename(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDate, date)
			assert.Equal(t, tt.wantSlug, slug)
		})
	}
}

func TestIsPostFile(t *testing.T) {
	assert.True(t, IsPostFile("_posts/2019-1-2-x.markdown"))
	assert.True(t, IsPostFile("_posts/2019-1-2-x.md"))
	assert.True(t, IsPostFile("_posts/2019-1-2-x.MD"))
	assert.False(t, IsPostFile("_posts/2019-1-2-x.html"))
	assert.False(t, IsPostFile("images/chart.png"))
}

func TestPostFilename(t *testing.T) {
	date := time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2019-1-2-cache-locality.markdown", PostFilename(date, "cache-locality"))
}

func TestPostFilenameRoundTrip(t *testing.T) {
	date := time.Date(2021, 11, 9, 0, 0, 0, 0, time.UTC)
	name := PostFilename(date, "branch-prediction")
	gotDate, gotSlug, err := ParseFilename(name)
	require.NoError(t, err)
	assert.Equal(t, date, gotDate)
	assert.Equal(t, "branch-prediction", gotSlug)
}
