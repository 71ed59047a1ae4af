// Package store は収集結果の永続化を担います。正本はJSON配列ファイルであり、
// 書き込みは常に「読み込み→マージ→全体の書き直し」で行います。
// 途中で停止しても壊れたファイルが残らないよう、書き込みは一時ファイルへの
// 出力とリネームで原子的に行います。
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/shouni/go-reg-harvest/pkg/dedupe"
	"github.com/shouni/go-reg-harvest/pkg/types"
)

// DefaultCheckpointInterval は詳細取得の途中経過を書き出す間隔 (件数) です。
const DefaultCheckpointInterval = 10

// Store は1サイト分の出力ファイルを管理します。
type Store struct {
	path     string
	identity dedupe.Identity
}

// New は出力ファイルパスを指定してStoreを初期化します。
// identity は重複判定フィルタと同じものを渡します。nil は dedupe.CanonicalURL です。
func New(path string, identity dedupe.Identity) *Store {
	if identity == nil {
		identity = dedupe.CanonicalURL
	}
	return &Store{path: path, identity: identity}
}

// Path は出力ファイルのパスを返します。
func (s *Store) Path() string { return s.path }

// Load は既存の出力ファイルを読み込みます。
// ファイルが存在しない場合は空のスライスを返します (初回実行)。
func (s *Store) Load() ([]types.Item, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("出力ファイルの読み込みに失敗しました (%s): %w", s.path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var items []types.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("出力ファイルの解析に失敗しました (%s): %w", s.path, err)
	}
	return items, nil
}

// Merge は既存レコードと新規レコードを統合します。既存レコードは不変であり、
// 同一IDの新規レコードで上書きされることはありません (先勝ち)。
// IDの導出は重複判定フィルタと同じ identity を使用します。フィルタを通過した
// レコードがマージで消えることはありません。nil は dedupe.CanonicalURL です。
// 結果は日付降順、同日内はURL昇順で安定に並びます。
func Merge(existing, incoming []types.Item, identity dedupe.Identity) []types.Item {
	if identity == nil {
		identity = dedupe.CanonicalURL
	}
	seen := make(map[string]struct{}, len(existing))
	merged := make([]types.Item, 0, len(existing)+len(incoming))

	for _, item := range existing {
		id := identity(item.URL, item.Headline, item.Date)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, item)
	}
	for _, item := range incoming {
		id := identity(item.URL, item.Headline, item.Date)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, item)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Date != merged[j].Date {
			return merged[i].Date > merged[j].Date
		}
		return merged[i].URL < merged[j].URL
	})
	return merged
}

// Save はレコード全体を原子的に書き直します。
func (s *Store) Save(items []types.Item) error {
	if items == nil {
		items = []types.Item{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("JSONへの変換に失敗しました: %w", err)
	}
	return atomicWrite(s.path, append(data, '\n'))
}

// MergeAndSave は既存ファイルを読み込み、新規レコードをマージして書き戻します。
// 戻り値は書き込み後の全レコードです。
func (s *Store) MergeAndSave(incoming []types.Item) ([]types.Item, error) {
	existing, err := s.Load()
	if err != nil {
		return nil, err
	}
	merged := Merge(existing, incoming, s.identity)
	if err := s.Save(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// atomicWrite は一時ファイルへ書き込んでからリネームします。
func atomicWrite(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("出力ディレクトリの作成に失敗しました: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("一時ファイルの作成に失敗しました: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("一時ファイルへの書き込みに失敗しました: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("一時ファイルのクローズに失敗しました: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("出力ファイルの置き換えに失敗しました: %w", err)
	}
	return nil
}
