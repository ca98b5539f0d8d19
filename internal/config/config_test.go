package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadWith(t *testing.T, settings map[string]interface{}) (*Config, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	for k, v := range settings {
		viper.Set(k, v)
	}
	return Load()
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadWith(t, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"_posts"}, cfg.Content.PostDirs)
	assert.Equal(t, "images", cfg.Content.StaticDir)
	assert.Equal(t, "_layouts", cfg.Content.LayoutsDir)
	assert.Equal(t, "_site", cfg.Build.OutputDir)
	assert.Equal(t, ".inkwell/cache", cfg.Build.CacheDir)
	assert.Equal(t, 10, cfg.Build.PostsPerPage)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "monokai", cfg.Markdown.CodeStyle)
	assert.True(t, cfg.Markdown.Unsafe)
	assert.True(t, cfg.Feed.Enabled)
	assert.Equal(t, 20, cfg.Feed.Limit)
}

func TestLoad_PostDirsFromViper(t *testing.T) {
	cfg, err := loadWith(t, map[string]interface{}{
		"content.post_dirs": []string{"posts", "essays"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"posts", "essays"}, cfg.Content.PostDirs)
}

func TestLoad_MarkdownUnsafeCanBeDisabled(t *testing.T) {
	cfg, err := loadWith(t, map[string]interface{}{
		"markdown.unsafe": false,
	})
	require.NoError(t, err)
	assert.False(t, cfg.Markdown.Unsafe)
}

func TestLoad_InvalidPort(t *testing.T) {
	_, err := loadWith(t, map[string]interface{}{
		"server.port": 70000,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in valid range")
}

func TestLoad_RejectsPathTraversalInOutputDir(t *testing.T) {
	_, err := loadWith(t, map[string]interface{}{
		"build.output_dir": "../outside",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path traversal")
}

func TestLoad_RejectsAbsoluteOutputDir(t *testing.T) {
	_, err := loadWith(t, map[string]interface{}{
		"build.output_dir": "/tmp/site",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relative path")
}

func TestLoad_RejectsDangerousHost(t *testing.T) {
	_, err := loadWith(t, map[string]interface{}{
		"server.host": "localhost;rm -rf /",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dangerous character")
}

func TestLoad_RejectsDangerousPostDir(t *testing.T) {
	_, err := loadWith(t, map[string]interface{}{
		"content.post_dirs": []string{"posts;evil"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dangerous character")
}

func TestLoad_RejectsZeroPostsPerPage(t *testing.T) {
	_, err := loadWith(t, map[string]interface{}{
		"build.posts_per_page": -1,
	})
	require.Error(t, err)
}

func TestLoad_BuildFlagsFromViper(t *testing.T) {
	cfg, err := loadWith(t, map[string]interface{}{
		"build.drafts": true,
		"build.future": true,
	})
	require.NoError(t, err)
	assert.True(t, cfg.Build.Drafts)
	assert.True(t, cfg.Build.Future)
}
