package model

import "github.com/shopspring/decimal"

// メニュー1品。在庫はカタログだけが持つ
type MenuItem struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Stock    int64           `json:"stock"`

	// 作成ごとに振られる番号。IDが再利用されても別の値になる
	Generation int64 `json:"-"`
}

// DefaultStock は在庫未指定のときの初期値
const DefaultStock int64 = 100

// カテゴリごとのまとまり（表示用）
type MenuCategoryGroup struct {
	Category string     `json:"category"`
	Items    []MenuItem `json:"items"`
}

// GroupByCategory groups items by category, keeping the order in which each
// category first appears.
func GroupByCategory(items []MenuItem) []MenuCategoryGroup {
	groups := make([]MenuCategoryGroup, 0)
	index := make(map[string]int)

	for _, it := range items {
		i, ok := index[it.Category]
		if !ok {
			i = len(groups)
			index[it.Category] = i
			groups = append(groups, MenuCategoryGroup{Category: it.Category})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

// 初期メニュー
func DefaultMenu() []MenuItem {
	item := func(id int64, name string, price int64, category string) MenuItem {
		return MenuItem{
			ID:       id,
			Name:     name,
			Price:    decimal.NewFromInt(price),
			Category: category,
			Stock:    DefaultStock,
		}
	}

	return []MenuItem{
		item(1, "Nasi Goreng", 25000, "Makanan Utama"),
		item(2, "Mie Ayam", 20000, "Makanan Utama"),
		item(3, "Soto Ayam", 18000, "Makanan Utama"),
		item(4, "Gado-Gado", 15000, "Makanan Utama"),
		item(5, "Es Teh", 5000, "Minuman"),
		item(6, "Es Jeruk", 7000, "Minuman"),
		item(7, "Kopi", 8000, "Minuman"),
		item(8, "Jus Alpukat", 12000, "Minuman"),
		item(9, "Pisang Goreng", 10000, "Snack"),
		item(10, "Tahu Isi", 8000, "Snack"),
	}
}
