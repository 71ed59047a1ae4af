package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultLinkBlocklist はアウトバウンドリンクから除外するマーケティング・
// ソーシャル系ドメインの既定リストです。
var DefaultLinkBlocklist = []string{
	"twitter.com",
	"x.com",
	"facebook.com",
	"linkedin.com",
	"instagram.com",
	"youtube.com",
	"addthis.com",
	"sharethis.com",
}

// attachmentExtensions は添付ファイルとして扱う拡張子です。
var attachmentExtensions = []string{".pdf", ".xlsx", ".xls", ".csv", ".docx", ".doc"}

// Links はドキュメント内のアウトバウンドリンクを絶対URLとして収集します。
// ブロックリストに含まれるドメイン、ページ内アンカー、mailto等は除外し、
// 出現順を保ったまま重複を排除します。
func Links(doc *goquery.Document, baseURL string, blocklist []string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var links []string

	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") ||
			strings.HasPrefix(href, "tel:") {
			return
		}

		resolved, err := base.Parse(href)
		if err != nil || (resolved.Scheme != "http" && resolved.Scheme != "https") {
			return
		}
		resolved.Fragment = ""

		if isBlockedHost(resolved.Host, blocklist) {
			return
		}

		u := resolved.String()
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		links = append(links, u)
	})

	return links
}

// AttachmentLinks は収集済みリンクから文書ファイル (PDF/Excel/CSV/Word) への
// リンクのみを抽出します。
func AttachmentLinks(links []string) []string {
	var out []string
	for _, link := range links {
		parsed, err := url.Parse(link)
		if err != nil {
			continue
		}
		path := strings.ToLower(parsed.Path)
		for _, ext := range attachmentExtensions {
			if strings.HasSuffix(path, ext) {
				out = append(out, link)
				break
			}
		}
	}
	return out
}

// LeadImage は記事の代表画像URLを返します。og:image を優先し、
// 見つからない場合はメインコンテンツ内の最初の img を採用します。
func LeadImage(doc *goquery.Document, baseURL string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}

	if og, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok && og != "" {
		if resolved, err := base.Parse(strings.TrimSpace(og)); err == nil {
			return resolved.String()
		}
	}

	src, ok := doc.Find(fallbackContentSelectors).First().Find("img[src]").First().Attr("src")
	if !ok || src == "" {
		return ""
	}
	resolved, err := base.Parse(strings.TrimSpace(src))
	if err != nil {
		return ""
	}
	return resolved.String()
}

// isBlockedHost はホストがブロックリストのドメイン (またはそのサブドメイン) に
// 一致するかを判定します。
func isBlockedHost(host string, blocklist []string) bool {
	host = strings.ToLower(host)
	for _, blocked := range blocklist {
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return true
		}
	}
	return false
}
