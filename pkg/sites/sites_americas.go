package sites

import (
	"time"

	"github.com/shouni/go-reg-harvest/pkg/detail"
	"github.com/shouni/go-reg-harvest/pkg/extract"
	"github.com/shouni/go-reg-harvest/pkg/listing"
)

// 北米の当局
func init() {
	register(
		Site{
			Name:     "osfi",
			FullName: "Office of the Superintendent of Financial Institutions (Canada)",
			Region:   "americas",
			BaseURL:  "https://www.osfi-bsif.gc.ca",
			ListURL:  "https://www.osfi-bsif.gc.ca/en/news",
			PageURL:  "https://www.osfi-bsif.gc.ca/en/news?page=%d",
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
			Name:     "fdic",
			FullName: "Federal Deposit Insurance Corporation",
			Region:   "americas",
			BaseURL:  "https://www.fdic.gov",
			ListURL:  "https://www.fdic.gov/news/press-releases",
			PageURL:  "https://www.fdic.gov/news/press-releases?page=%d",
			ListRules: listing.RowRules{
				Row:      extract.RuleChain{".views-row", ".press-release-row"},
				Title:    extract.RuleChain{"h3 a", "a"},
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
			Name:     "fed",
			FullName: "Board of Governors of the Federal Reserve System",
			Region:   "americas",
			BaseURL:  "https://www.federalreserve.gov",
			ListURL:  "https://www.federalreserve.gov/newsevents/pressreleases.htm",
			FeedURL:  "https://www.federalreserve.gov/feeds/press_all.xml",
			DetailRules: detail.Rules{
				Headline: extract.RuleChain{"h3.title", "h1"},
				Date:     extract.RuleChain{".article__time", "time"},
				Body:     extract.RuleChain{"#article", ".col-md-8", "main"},
			},
			DelayMin: 1 * time.Second,
			DelayMax: 2 * time.Second,
		},
		Site{
			Name:     "occ",
			FullName: "Office of the Comptroller of the Currency",
			Region:   "americas",
			BaseURL:  "https://www.occ.gov",
			ListURL:  "https://www.occ.gov/news-issuances/news-releases/index-news-releases.html",
			ListRules: listing.RowRules{
				Row:   extract.RuleChain{".occ-result", "table.data-table tr"},
				Title: extract.RuleChain{"a"},
				Date:  extract.RuleChain{".date", "td:first-child"},
			},
			DetailRules: detail.Rules{
				Headline: extract.RuleChain{"h1"},
				Date:     extract.RuleChain{".publish-date", "time"},
				Body:     extract.RuleChain{".occ-article", "article", "main"},
			},
			DelayMin: 1 * time.Second,
			DelayMax: 3 * time.Second,
		},
	)
}
