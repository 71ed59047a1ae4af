package sites

import (
	"fmt"
	"sort"
	"strings"
)

// registry は全サイト定義です。地域別のファイルで初期化されます。
var registry = map[string]Site{}

// register はサイト定義を登録します。initからのみ呼び出されます。
func register(sites ...Site) {
	for _, s := range sites {
		if _, ok := registry[s.Name]; ok {
			panic(fmt.Sprintf("サイト定義が重複しています: %s", s.Name))
		}
		registry[s.Name] = s
	}
}

// Get は名前でサイト定義を取得します。
func Get(name string) (Site, error) {
	s, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Site{}, fmt.Errorf("未定義のサイトです: %s (reg-harvest sites で一覧を確認できます)", name)
	}
	return s, nil
}

// All は全サイト定義を名前順で返します。
func All() []Site {
	all := make([]Site, 0, len(registry))
	for _, s := range registry {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

// ByRegion は指定地域のサイト定義を名前順で返します。
func ByRegion(region string) []Site {
	var matched []Site
	for _, s := range All() {
		if s.Region == region {
			matched = append(matched, s)
		}
	}
	return matched
}

// Names は登録済みサイト名の一覧を返します。
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
