package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("パス未指定は既定値", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
		assert.True(t, cfg.RespectRobots)
	})

	t.Run("成功ケース_設定ファイルの値が反映される", func(t *testing.T) {
		path := writeConfig(t, `
output_dir: /var/lib/harvest
concurrency: 5
checkpoint_interval: 25
respect_robots: false
sites:
  - apra
  - rba
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/var/lib/harvest", cfg.OutputDir)
		assert.Equal(t, 5, cfg.Concurrency)
		assert.Equal(t, 25, cfg.CheckpointInterval)
		assert.False(t, cfg.RespectRobots)
		assert.Equal(t, []string{"apra", "rba"}, cfg.Sites)
	})

	t.Run("部分指定は既定値で補完される", func(t *testing.T) {
		path := writeConfig(t, "concurrency: 8\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 8, cfg.Concurrency)
		assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	})

	t.Run("エラーケース_存在しないファイル", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "設定ファイルの読み込みに失敗しました")
	})

	t.Run("エラーケース_不正なYAML", func(t *testing.T) {
		path := writeConfig(t, "output_dir: [unclosed\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "設定ファイルの解析に失敗しました")
	})

	t.Run("エラーケース_不正な並行数", func(t *testing.T) {
		path := writeConfig(t, "concurrency: -1\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "concurrency")
	})
}
