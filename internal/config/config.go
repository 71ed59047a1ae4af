// Package config は実行時設定を管理します。設定ファイルはYAMLで、
// 指定がない場合は既定値で動作します。コマンドラインフラグは
// 設定ファイルの値より優先されます。
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// 既定値
const (
	DefaultOutputDir          = "data"
	DefaultConcurrency        = 3
	DefaultCheckpointInterval = 10
)

// Config は実行時設定です。
type Config struct {
	// OutputDir は出力ファイル (JSON/CSV/既読ID) の配置先です。
	OutputDir string `yaml:"output_dir"`

	// Concurrency は詳細ページ取得の並行ワーカー数です。
	Concurrency int `yaml:"concurrency"`

	// CheckpointInterval は途中保存を行う間隔 (件数) です。
	CheckpointInterval int `yaml:"checkpoint_interval"`

	// RespectRobots が真の場合、robots.txtを取得して従います。
	RespectRobots bool `yaml:"respect_robots"`

	// Sites は収集対象を限定するサイト名の一覧です。空は全サイトです。
	Sites []string `yaml:"sites"`

	// MinYield は添付テキスト抽出の最小文字数閾値です (0は既定値)。
	MinYield int `yaml:"min_yield"`
}

// Default は既定の設定を返します。
func Default() Config {
	return Config{
		OutputDir:          DefaultOutputDir,
		Concurrency:        DefaultConcurrency,
		CheckpointInterval: DefaultCheckpointInterval,
		RespectRobots:      true,
	}
}

// Load は設定ファイルを読み込みます。パスが空の場合は既定値を返します。
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("設定ファイルの読み込みに失敗しました (%s): %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("設定ファイルの解析に失敗しました (%s): %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir は空にできません")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency は1以上である必要があります: %d", c.Concurrency)
	}
	if c.CheckpointInterval <= 0 {
		return fmt.Errorf("checkpoint_interval は1以上である必要があります: %d", c.CheckpointInterval)
	}
	return nil
}
