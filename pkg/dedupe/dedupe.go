package dedupe

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// attachmentPrefix は記事IDと添付ファイルIDの衝突を避けるための接頭辞です。
const attachmentPrefix = "a:"

// Identity は候補を一意に識別するIDを導出する関数です。
type Identity func(rawURL, title, date string) string

// CanonicalURL はURLのみを識別子とする既定のIdentityです。
// スキーム・ホストの小文字化、フラグメント除去、末尾スラッシュ除去により
// 表記揺れを吸収します。
func CanonicalURL(rawURL, _, _ string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return strings.TrimSpace(rawURL)
	}
	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	return parsed.String()
}

// HashIdentity はURL・タイトル・日付の複合ハッシュを識別子とするIdentityです。
// 同一URLで内容が差し替わるサイト (お知らせ一覧を同じページで更新する当局)
// に使用します。
func HashIdentity(rawURL, title, date string) string {
	h := sha256.Sum256([]byte(CanonicalURL(rawURL, "", "") + "\x00" + strings.TrimSpace(title) + "\x00" + strings.TrimSpace(date)))
	return hex.EncodeToString(h[:])
}

// Index は取得済みIDの集合です。並行する詳細取得ワーカーから安全に使用できます。
type Index struct {
	mu       sync.Mutex
	seen     map[string]struct{}
	identity Identity
}

// NewIndex は指定されたIdentityで空のIndexを作成します。
// identity が nil の場合は CanonicalURL を使用します。
func NewIndex(identity Identity) *Index {
	if identity == nil {
		identity = CanonicalURL
	}
	return &Index{
		seen:     make(map[string]struct{}),
		identity: identity,
	}
}

// IsNew はIDが未登録の場合にtrueを返し、同時に登録します。
// 同一IDに対する2回目以降の呼び出しは常にfalseです。
func (idx *Index) IsNew(rawURL, title, date string) bool {
	id := idx.identity(rawURL, title, date)

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, ok := idx.seen[id]; ok {
		return false
	}
	idx.seen[id] = struct{}{}
	return true
}

// MarkAttachment は添付ファイルURLを登録し、未登録だった場合にtrueを返します。
// 記事IDとは別の名前空間で管理されます。
func (idx *Index) MarkAttachment(rawURL string) bool {
	h := sha256.Sum256([]byte(CanonicalURL(rawURL, "", "")))
	id := attachmentPrefix + hex.EncodeToString(h[:])

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, ok := idx.seen[id]; ok {
		return false
	}
	idx.seen[id] = struct{}{}
	return true
}

// Forget はIDの登録を取り消します。詳細取得に失敗した候補を
// 次回実行で再試行させるために使用します。
func (idx *Index) Forget(rawURL, title, date string) {
	id := idx.identity(rawURL, title, date)
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.seen, id)
}

// Len は登録済みIDの数を返します。
func (idx *Index) Len() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return len(idx.seen)
}

// ----------------------------------------------------------------------
// サイドカーファイルへの永続化
// ----------------------------------------------------------------------

// SidecarPath は出力ファイルに対応する既読IDファイルのパスを返します。
func SidecarPath(outputPath string) string {
	return outputPath + ".seen"
}

// Load はサイドカーファイルから既読IDを読み込みます。
// ファイルが存在しない場合は空のIndexを返します (初回実行)。
func Load(path string, identity Identity) (*Index, error) {
	idx := NewIndex(identity)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, fmt.Errorf("既読IDファイルのオープンに失敗しました (%s): %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" {
			continue
		}
		idx.seen[id] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("既読IDファイルの読み込みに失敗しました (%s): %w", path, err)
	}
	return idx, nil
}

// Save はIndexの内容をサイドカーファイルへ書き出します。
// 一時ファイルへ書いてからリネームすることで、中断時の破損を防ぎます。
func (idx *Index) Save(path string) error {
	idx.mu.Lock()
	ids := make([]string, 0, len(idx.seen))
	for id := range idx.seen {
		ids = append(ids, id)
	}
	idx.mu.Unlock()
	sort.Strings(ids)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("出力ディレクトリの作成に失敗しました: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("既読IDファイルの作成に失敗しました (%s): %w", tmp, err)
	}

	w := bufio.NewWriter(f)
	for _, id := range ids {
		if _, err := w.WriteString(id + "\n"); err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("既読IDの書き込みに失敗しました: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("既読IDのフラッシュに失敗しました: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("既読IDファイルのクローズに失敗しました: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("既読IDファイルの置き換えに失敗しました: %w", err)
	}
	return nil
}
