package sites

import (
	"time"

	"github.com/shouni/go-reg-harvest/pkg/detail"
	"github.com/shouni/go-reg-harvest/pkg/extract"
	"github.com/shouni/go-reg-harvest/pkg/listing"
)

// 欧州の当局・国際機関
func init() {
	register(
		Site{
			Name:     "ecb",
			FullName: "European Central Bank",
			Region:   "europe",
			BaseURL:  "https://www.ecb.europa.eu",
			ListURL:  "https://www.ecb.europa.eu/press/pr/html/index.en.html",
			FeedURL:  "https://www.ecb.europa.eu/rss/press.html",
			DetailRules: detail.Rules{
				Headline: extract.RuleChain{"h1", ".title"},
				Date:     extract.RuleChain{".publication-date", "time"},
				Body:     extract.RuleChain{".section", "main", "article"},
			},
			DelayMin: 1 * time.Second,
			DelayMax: 2 * time.Second,
		},
		Site{
			Name:     "bis",
			FullName: "Bank for International Settlements",
			Region:   "europe",
			BaseURL:  "https://www.bis.org",
			ListURL:  "https://www.bis.org/press/index.htm",
			FeedURL:  "https://www.bis.org/doclist/all_rss.rss",
			DetailRules: detail.Rules{
				Headline: extract.RuleChain{"h1", "#title"},
				Date:     extract.RuleChain{".date", "time"},
				Body:     extract.RuleChain{"#cmsContent", "article", "main"},
			},
			DelayMin: 1 * time.Second,
			DelayMax: 2 * time.Second,
		},
		Site{
			Name:     "boe",
			FullName: "Bank of England",
			Region:   "europe",
			BaseURL:  "https://www.bankofengland.co.uk",
			ListURL:  "https://www.bankofengland.co.uk/news/news",
			PageURL:  "https://www.bankofengland.co.uk/news/news?page=%d",
			ListRules: listing.RowRules{
				Row:      extract.RuleChain{".col3", ".release"},
				Title:    extract.RuleChain{"h3.list", "a h3"},
				Date:     extract.RuleChain{".release-date", "time"},
				Category: extract.RuleChain{".release-tag"},
				NextPage: extract.RuleChain{"a.list-pagination__link--next"},
			},
			DetailRules: detail.Rules{
				Headline: extract.RuleChain{"h1"},
				Date:     extract.RuleChain{".published-date", "time"},
				Body:     extract.RuleChain{".page-section", "article", "main"},
			},
			DelayMin:        1 * time.Second,
			DelayMax:        3 * time.Second,
			EmptyRunIsError: true,
		},
	)
}
