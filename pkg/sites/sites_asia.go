package sites

import (
	"time"

	"github.com/shouni/go-reg-harvest/pkg/detail"
	"github.com/shouni/go-reg-harvest/pkg/extract"
	"github.com/shouni/go-reg-harvest/pkg/listing"
)

// アジアの当局
func init() {
	register(
		Site{
			Name:     "mas",
			FullName: "Monetary Authority of Singapore",
			Region:   "asia",
			BaseURL:  "https://www.mas.gov.sg",
			ListURL:  "https://www.mas.gov.sg/news",
			PageURL:  "https://www.mas.gov.sg/news?page=%d",
			// 一覧がJSで描画される
			UseBrowser: true,
			ListRules: listing.RowRules{
				Row:      extract.RuleChain{".mas-search-card", ".news-card"},
				Title:    extract.RuleChain{"a.mas-link", "h3 a"},
				Date:     extract.RuleChain{".mas-date", ".date"},
				Category: extract.RuleChain{".mas-tag", ".category"},
			},
			DetailRules: detail.Rules{
				Headline: extract.RuleChain{"h1"},
				Date:     extract.RuleChain{".mas-date", "time"},
				Body:     extract.RuleChain{".mas-rte", "article", "main"},
			},
			DelayMin: 2 * time.Second,
			DelayMax: 4 * time.Second,
		},
		Site{
			Name:     "hkma",
			FullName: "Hong Kong Monetary Authority",
			Region:   "asia",
			BaseURL:  "https://www.hkma.gov.hk",
			ListURL:  "https://www.hkma.gov.hk/eng/news-and-media/press-releases/",
			PageURL:  "https://www.hkma.gov.hk/eng/news-and-media/press-releases/?page=%d",
			// 一覧ページが同一URLのまま更新されるため複合IDで重複判定する
			HashIdentity: true,
			ListRules: listing.RowRules{
				Row:      extract.RuleChain{".news-list li", ".press-release-item"},
				Title:    extract.RuleChain{"a"},
				Date:     extract.RuleChain{".date", "time"},
				NextPage: extract.RuleChain{".pagination .next a"},
			},
			DetailRules: detail.Rules{
				Headline: extract.RuleChain{"h1", ".content-title"},
				Date:     extract.RuleChain{".date", "time"},
				Body:     extract.RuleChain{".content-detail", "#content", "main"},
			},
			DelayMin: 1 * time.Second,
			DelayMax: 3 * time.Second,
		},
		Site{
			Name:     "jfsa",
			FullName: "Financial Services Agency (Japan)",
			Region:   "asia",
			BaseURL:  "https://www.fsa.go.jp",
			ListURL:  "https://www.fsa.go.jp/en/newsletter/index.html",
			// 旧式のサイト構成。証明書チェーンが不完全な配信系を含む
			InsecureTLS: true,
			ListRules: listing.RowRules{
				Row:   extract.RuleChain{".news-list li", "table.list tr"},
				Title: extract.RuleChain{"a"},
				Date:  extract.RuleChain{".date", "td:first-child"},
			},
			DetailRules: detail.Rules{
				Headline: extract.RuleChain{"h1", "h2.title"},
				Date:     extract.RuleChain{".date"},
				Body:     extract.RuleChain{"#main", ".contents", "body"},
			},
			DelayMin: 1 * time.Second,
			DelayMax: 3 * time.Second,
		},
	)
}
