package sites

import (
	"time"

	"github.com/shouni/go-reg-harvest/pkg/detail"
	"github.com/shouni/go-reg-harvest/pkg/extract"
	"github.com/shouni/go-reg-harvest/pkg/listing"
)

// ニュージーランドの当局
func init() {
	register(
		Site{
			Name:     "rbnz",
			FullName: "Reserve Bank of New Zealand",
			Region:   "nz",
			BaseURL:  "https://www.rbnz.govt.nz",
			ListURL:  "https://www.rbnz.govt.nz/hub/news",
			PageURL:  "https://www.rbnz.govt.nz/hub/news?page=%d",
			ListRules: listing.RowRules{
				Row:      extract.RuleChain{".search-result", ".news-item"},
				Title:    extract.RuleChain{"h3 a", "a.title"},
				Date:     extract.RuleChain{".date", "time"},
				Category: extract.RuleChain{".tag", ".category"},
				NextPage: extract.RuleChain{"a[rel='next']", ".pagination .next a"},
			},
			DetailRules: detail.Rules{
				Headline: extract.RuleChain{"h1"},
				Date:     extract.RuleChain{".published-date", "time"},
				Body:     extract.RuleChain{".article-content", "article", "main"},
			},
			DelayMin: 1 * time.Second,
			DelayMax: 3 * time.Second,
		},
		Site{
			Name:     "fma",
			FullName: "Financial Markets Authority",
			Region:   "nz",
			BaseURL:  "https://www.fma.govt.nz",
			ListURL:  "https://www.fma.govt.nz/library/media-releases/",
			PageURL:  "https://www.fma.govt.nz/library/media-releases/?start=%d",
			ListRules: listing.RowRules{
				Row:      extract.RuleChain{".document-tile", ".listing-item"},
				Title:    extract.RuleChain{"h3 a", "a.title"},
				Date:     extract.RuleChain{".date", "time"},
				NextPage: extract.RuleChain{".pagination-next a", "a[rel='next']"},
			},
			DetailRules: detail.Rules{
				Headline: extract.RuleChain{"h1"},
				Date:     extract.RuleChain{".date", "time"},
				Body:     extract.RuleChain{".content-area", "article", "main"},
			},
			DelayMin: 1 * time.Second,
			DelayMax: 3 * time.Second,
		},
		Site{
			Name:     "comcom",
			FullName: "Commerce Commission New Zealand",
			Region:   "nz",
			BaseURL:  "https://comcom.govt.nz",
			ListURL:  "https://comcom.govt.nz/news-and-media/media-releases",
			PageURL:  "https://comcom.govt.nz/news-and-media/media-releases?start=%d",
			ListRules: listing.RowRules{
				Row:      extract.RuleChain{".search-results__result", ".media-release"},
				Title:    extract.RuleChain{"h3 a", "a"},
				Date:     extract.RuleChain{".date", "time"},
				NextPage: extract.RuleChain{".pagination__next a", "a[rel='next']"},
			},
			DetailRules: detail.Rules{
				Headline: extract.RuleChain{"h1"},
				Date:     extract.RuleChain{".date", "time"},
				Body:     extract.RuleChain{".page-content", "article", "main"},
			},
			DelayMin: 1 * time.Second,
			DelayMax: 3 * time.Second,
		},
		Site{
			Name:     "mbie",
			FullName: "Ministry of Business, Innovation and Employment",
			Region:   "nz",
			BaseURL:  "https://www.mbie.govt.nz",
			ListURL:  "https://www.mbie.govt.nz/about/news",
			PageURL:  "https://www.mbie.govt.nz/about/news?page=%d",
			ListRules: listing.RowRules{
				Row:      extract.RuleChain{".news-listing__item", ".listing-item"},
				Title:    extract.RuleChain{"h3 a", "a"},
				Date:     extract.RuleChain{".date", "time"},
				NextPage: extract.RuleChain{"a[rel='next']"},
			},
			DetailRules: detail.Rules{
				Headline: extract.RuleChain{"h1"},
				Date:     extract.RuleChain{"time", ".date"},
				Body:     extract.RuleChain{".content", "article", "main"},
			},
			DelayMin: 1 * time.Second,
			DelayMax: 3 * time.Second,
		},
		Site{
			Name:     "treasury-nz",
			FullName: "New Zealand Treasury",
			Region:   "nz",
			BaseURL:  "https://www.treasury.govt.nz",
			ListURL:  "https://www.treasury.govt.nz/news-and-events/news",
			PageURL:  "https://www.treasury.govt.nz/news-and-events/news?page=%d",
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
	)
}
