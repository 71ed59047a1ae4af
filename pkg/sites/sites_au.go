package sites

import (
	"time"

	"github.com/shouni/go-reg-harvest/pkg/detail"
	"github.com/shouni/go-reg-harvest/pkg/extract"
	"github.com/shouni/go-reg-harvest/pkg/listing"
)

// オーストラリアの当局。多くがDrupalベースのためビュー系セレクタが共通して使えます。
func init() {
	register(
		Site{
			Name:     "apra",
			FullName: "Australian Prudential Regulation Authority",
			Region:   "au",
			BaseURL:  "https://www.apra.gov.au",
			ListURL:  "https://www.apra.gov.au/news-and-publications",
			PageURL:  "https://www.apra.gov.au/news-and-publications?page=%d",
			ListRules: listing.RowRules{
				Row:      extract.RuleChain{".views-row", "article.node--type-news"},
				Title:    extract.RuleChain{"h3 a", "h2 a"},
				Date:     extract.RuleChain{".date-display-single", "time"},
				Category: extract.RuleChain{".field--name-field-industry"},
				NextPage: extract.RuleChain{"li.pager__item--next a"},
			},
			DetailRules: detail.Rules{
				Headline: extract.RuleChain{"h1.page-title", "h1"},
				Date:     extract.RuleChain{".field--name-field-date time", "time"},
				Theme:    extract.RuleChain{".field--name-field-industry"},
				Body:     extract.RuleChain{".field--name-body", "article"},
			},
			DelayMin:        1 * time.Second,
			DelayMax:        3 * time.Second,
			EmptyRunIsError: false,
		},
		Site{
			Name:     "asic",
			FullName: "Australian Securities and Investments Commission",
			Region:   "au",
			BaseURL:  "https://asic.gov.au",
			ListURL:  "https://asic.gov.au/newsroom/news-centre/find-a-media-release",
			PageURL:  "https://asic.gov.au/newsroom/news-centre/find-a-media-release?page=%d",
			// 一覧がJSで描画されるためヘッドレスブラウザで取得する
			UseBrowser: true,
			ListRules: listing.RowRules{
				Row:      extract.RuleChain{".nh-search-result", ".media-release-item"},
				Title:    extract.RuleChain{"h3 a", "a.title"},
				Date:     extract.RuleChain{".nh-date", ".date"},
				NextPage: extract.RuleChain{"a.next", ".pagination-next a"},
			},
			DetailRules: detail.Rules{
				Headline: extract.RuleChain{"h1"},
				Date:     extract.RuleChain{".nh-date", "time"},
				Body:     extract.RuleChain{".nh-article-body", "#main-content", "article"},
			},
			DelayMin:        2 * time.Second,
			DelayMax:        4 * time.Second,
			EmptyRunIsError: true,
		},
		Site{
			Name:     "rba",
			FullName: "Reserve Bank of Australia",
			Region:   "au",
			BaseURL:  "https://www.rba.gov.au",
			ListURL:  "https://www.rba.gov.au/media-releases/",
			FeedURL:  "https://www.rba.gov.au/rss/rss-cb-media-releases.xml",
			DetailRules: detail.Rules{
				Headline: extract.RuleChain{"h1.page-title", "h1"},
				Date:     extract.RuleChain{".page-date", "time"},
				Body:     extract.RuleChain{"#content .rss-mr-content", "#content", "main"},
			},
			DelayMin:        1 * time.Second,
			DelayMax:        2 * time.Second,
			EmptyRunIsError: false,
		},
		Site{
			Name:     "accc",
			FullName: "Australian Competition and Consumer Commission",
			Region:   "au",
			BaseURL:  "https://www.accc.gov.au",
			ListURL:  "https://www.accc.gov.au/media-releases",
			PageURL:  "https://www.accc.gov.au/media-releases?page=%d",
			ListRules: listing.RowRules{
				Row:      extract.RuleChain{".views-row"},
				Title:    extract.RuleChain{".card__title a", "h3 a"},
				Date:     extract.RuleChain{".card__date", "time"},
				Category: extract.RuleChain{".card__tag"},
				NextPage: extract.RuleChain{"li.pager__item--next a"},
			},
			DetailRules: detail.Rules{
				Headline: extract.RuleChain{"h1.page-title", "h1"},
				Date:     extract.RuleChain{".field--name-field-acccgov-release-date time", "time"},
				Body:     extract.RuleChain{".field--name-body", "article"},
			},
			DelayMin: 1 * time.Second,
			DelayMax: 3 * time.Second,
		},
		Site{
			Name:     "austrac",
			FullName: "Australian Transaction Reports and Analysis Centre",
			Region:   "au",
			BaseURL:  "https://www.austrac.gov.au",
			ListURL:  "https://www.austrac.gov.au/news-and-media/media-release",
			PageURL:  "https://www.austrac.gov.au/news-and-media/media-release?page=%d",
			ListRules: listing.RowRules{
				Row:      extract.RuleChain{".views-row"},
				Title:    extract.RuleChain{"h3 a", "h2 a"},
				Date:     extract.RuleChain{"time", ".date"},
				NextPage: extract.RuleChain{"li.pager__item--next a"},
			},
			DetailRules: detail.Rules{
				Headline: extract.RuleChain{"h1.page-title", "h1"},
				Date:     extract.RuleChain{"time"},
				Body:     extract.RuleChain{".field--name-body", "article"},
			},
			DelayMin: 1 * time.Second,
			DelayMax: 3 * time.Second,
		},
		Site{
			Name:     "acma",
			FullName: "Australian Communications and Media Authority",
			Region:   "au",
			BaseURL:  "https://www.acma.gov.au",
			ListURL:  "https://www.acma.gov.au/news-and-media",
			PageURL:  "https://www.acma.gov.au/news-and-media?page=%d",
			ListRules: listing.RowRules{
				Row:      extract.RuleChain{".views-row", ".news-listing__item"},
				Title:    extract.RuleChain{"h3 a", "a"},
				Date:     extract.RuleChain{"time", ".date"},
				NextPage: extract.RuleChain{"li.pager__item--next a"},
			},
			DetailRules: detail.Rules{
				Headline: extract.RuleChain{"h1"},
				Date:     extract.RuleChain{"time"},
				Body:     extract.RuleChain{".field--name-body", "main"},
			},
			DelayMin: 1 * time.Second,
			DelayMax: 3 * time.Second,
		},
		Site{
			Name:     "afca",
			FullName: "Australian Financial Complaints Authority",
			Region:   "au",
			BaseURL:  "https://www.afca.org.au",
			ListURL:  "https://www.afca.org.au/news",
			PageURL:  "https://www.afca.org.au/news?page=%d",
			ListRules: listing.RowRules{
				Row:      extract.RuleChain{".views-row"},
				Title:    extract.RuleChain{"h3 a", "h2 a"},
				Date:     extract.RuleChain{"time", ".date"},
				NextPage: extract.RuleChain{"li.pager__item--next a"},
			},
			DetailRules: detail.Rules{
				Headline: extract.RuleChain{"h1"},
				Date:     extract.RuleChain{"time"},
				Body:     extract.RuleChain{".field--name-body", "article", "main"},
			},
			DelayMin: 1 * time.Second,
			DelayMax: 3 * time.Second,
		},
		Site{
			Name:     "oaic",
			FullName: "Office of the Australian Information Commissioner",
			Region:   "au",
			BaseURL:  "https://www.oaic.gov.au",
			ListURL:  "https://www.oaic.gov.au/newsroom",
			PageURL:  "https://www.oaic.gov.au/newsroom?page=%d",
			ListRules: listing.RowRules{
				Row:      extract.RuleChain{".newsroom-list__item", ".views-row"},
				Title:    extract.RuleChain{"h3 a", "a"},
				Date:     extract.RuleChain{"time", ".date"},
				NextPage: extract.RuleChain{"a[rel='next']", "li.pager__item--next a"},
			},
			DetailRules: detail.Rules{
				Headline: extract.RuleChain{"h1"},
				Date:     extract.RuleChain{"time"},
				Body:     extract.RuleChain{".content-main", "article", "main"},
			},
			DelayMin: 1 * time.Second,
			DelayMax: 3 * time.Second,
		},
		Site{
			Name:     "aemo",
			FullName: "Australian Energy Market Operator",
			Region:   "au",
			BaseURL:  "https://aemo.com.au",
			ListURL:  "https://aemo.com.au/newsroom/media-release",
			// ページネーションはJSのため1ページ目のみ取得
			UseBrowser: true,
			ListRules: listing.RowRules{
				Row:   extract.RuleChain{".news-item", ".search-result"},
				Title: extract.RuleChain{"h3 a", "a.title"},
				Date:  extract.RuleChain{".date", "time"},
			},
			DetailRules: detail.Rules{
				Headline: extract.RuleChain{"h1"},
				Date:     extract.RuleChain{".date", "time"},
				Body:     extract.RuleChain{".rich-text", "article", "main"},
			},
			DelayMin: 2 * time.Second,
			DelayMax: 4 * time.Second,
		},
		Site{
			Name:     "tga",
			FullName: "Therapeutic Goods Administration",
			Region:   "au",
			BaseURL:  "https://www.tga.gov.au",
			ListURL:  "https://www.tga.gov.au/news/media-releases",
			PageURL:  "https://www.tga.gov.au/news/media-releases?page=%d",
			ListRules: listing.RowRules{
				Row:      extract.RuleChain{".views-row"},
				Title:    extract.RuleChain{"h3 a", "h2 a"},
				Date:     extract.RuleChain{"time", ".date"},
				NextPage: extract.RuleChain{"li.pager__item--next a"},
			},
			DetailRules: detail.Rules{
				Headline: extract.RuleChain{"h1"},
				Date:     extract.RuleChain{"time"},
				Body:     extract.RuleChain{".field--name-body", "article"},
			},
			DelayMin: 1 * time.Second,
			DelayMax: 3 * time.Second,
		},
		Site{
			Name:     "treasury-au",
			FullName: "Australian Treasury",
			Region:   "au",
			BaseURL:  "https://treasury.gov.au",
			ListURL:  "https://treasury.gov.au/media-release",
			PageURL:  "https://treasury.gov.au/media-release?page=%d",
			ListRules: listing.RowRules{
				Row:      extract.RuleChain{".views-row"},
				Title:    extract.RuleChain{"h3 a", "h2 a"},
				Date:     extract.RuleChain{"time", ".date-display-single"},
				NextPage: extract.RuleChain{"li.pager__item--next a"},
			},
			DetailRules: detail.Rules{
				Headline: extract.RuleChain{"h1"},
				Date:     extract.RuleChain{"time"},
				Body:     extract.RuleChain{".field--name-body", "article"},
			},
			DelayMin: 1 * time.Second,
			DelayMax: 3 * time.Second,
		},
	)
}
