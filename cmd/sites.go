package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shouni/go-reg-harvest/pkg/sites"
)

var sitesRegion string // --region 地域で一覧を絞る

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "登録済みの当局サイトを一覧表示します",
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		listed := sites.All()
		if sitesRegion != "" {
			listed = sites.ByRegion(sitesRegion)
			if len(listed) == 0 {
				return fmt.Errorf("地域 %q に該当するサイトがありません", sitesRegion)
			}
		}

		fmt.Printf("%-14s %-10s %s\n", "NAME", "REGION", "FULL NAME")
		for _, s := range listed {
			marker := ""
			if s.UseBrowser {
				marker = " (browser)"
			}
			if s.FeedURL != "" {
				marker = " (rss)"
			}
			fmt.Printf("%-14s %-10s %s%s\n", s.Name, s.Region, s.FullName, marker)
		}
		fmt.Printf("\n合計: %d サイト\n", len(listed))
		return nil
	},
}

func init() {
	sitesCmd.Flags().StringVar(&sitesRegion, "region", "", "地域コードで一覧を絞る (au, nz, asia, europe, americas)")
}
