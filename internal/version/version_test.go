package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetShortVersionWithLdflags(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = origVersion, origCommit }()

	Version = "1.2.3"
	GitCommit = "0123456789abcdef"
	assert.Equal(t, "1.2.3 (0123456)", GetShortVersion())

	Version = "dev"
	GitCommit = "unknown"
	assert.NotEmpty(t, GetShortVersion())
}

func TestIsRelease(t *testing.T) {
	origVersion := Version
	defer func() { Version = origVersion }()

	Version = "1.0.0"
	assert.True(t, IsRelease())

	Version = "dev"
	assert.False(t, IsRelease())
}

func TestParseBuildTime(t *testing.T) {
	assert.True(t, parseBuildTime("unknown").IsZero())
	assert.True(t, parseBuildTime("").IsZero())
	assert.True(t, parseBuildTime("garbage").IsZero())

	parsed := parseBuildTime("2024-06-01T12:00:00Z")
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), parsed)
}

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}
