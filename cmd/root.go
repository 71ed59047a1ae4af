package cmd

import (
	"log"
	"time"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"

	"github.com/shouni/go-reg-harvest/internal/config"
)

// --- グローバル定数 ---

const (
	appName           = "reg-harvest"
	defaultTimeoutSec = 30
	defaultMaxRetries = 3
)

// --- グローバル変数とフラグ構造体 ---

// AppFlags はこのアプリケーション固有の永続フラグを保持
type AppFlags struct {
	TimeoutSec int    // --timeout タイムアウト
	MaxRetries int    // --max-retries リトライ回数
	ConfigPath string // --config 設定ファイルのパス
	OutputDir  string // --output-dir 出力先 (設定ファイルより優先)
}

var Flags AppFlags              // アプリケーション固有フラグにアクセスするためのグローバル変数
var globalConfig config.Config // initAppPreRunE で読み込まれる実行時設定

// addAppPersistentFlags は、アプリケーション固有の永続フラグをルートコマンドに追加します。
func addAppPersistentFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().IntVar(
		&Flags.TimeoutSec,
		"timeout",
		defaultTimeoutSec,
		"HTTPリクエストのタイムアウト時間（秒）",
	)
	rootCmd.PersistentFlags().IntVar(
		&Flags.MaxRetries,
		"max-retries",
		defaultMaxRetries,
		"HTTPリクエストのリトライ最大回数",
	)
	rootCmd.PersistentFlags().StringVar(
		&Flags.ConfigPath,
		"config",
		"",
		"設定ファイル (YAML) のパス",
	)
	rootCmd.PersistentFlags().StringVar(
		&Flags.OutputDir,
		"output-dir",
		"",
		"出力ディレクトリ (設定ファイルの output_dir より優先)",
	)
}

// initAppPreRunE は、clibase共通処理の後に実行される、アプリケーション固有のPersistentPreRunEです。
// NOTE: clibaseの PersistentPreRunE チェーンにより、clibase.Flags.Verbose はこの関数実行前に設定済み
func initAppPreRunE(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(Flags.ConfigPath)
	if err != nil {
		return err
	}
	if Flags.OutputDir != "" {
		cfg.OutputDir = Flags.OutputDir
	}
	globalConfig = cfg

	if clibase.Flags.Verbose {
		log.Printf("設定を読み込みました (OutputDir: %s, Concurrency: %d, Timeout: %s)",
			cfg.OutputDir, cfg.Concurrency, time.Duration(Flags.TimeoutSec)*time.Second)
	}
	return nil
}

// GetConfig は、初期化済みの実行時設定を返す関数 (DIの代わり)
func GetConfig() config.Config {
	return globalConfig
}

// --- エントリポイント ---

// Execute は、ルートコマンドを実行するメイン関数です。clibaseのExecuteを使用する。
func Execute() {
	clibase.Execute(
		appName,
		addAppPersistentFlags,
		initAppPreRunE,
		runCmd,
		sitesCmd,
		extractCmd,
	)
}
