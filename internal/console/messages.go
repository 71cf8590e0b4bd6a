package console

import "strings"

// usecase のメッセージ → 画面表示用
var messages = map[string]string{
	"name required":             "Nama menu wajib diisi",
	"category required":         "Kategori wajib diisi",
	"price must be >= 0":        "Harga tidak boleh negatif",
	"stock must be >= 0":        "Stok tidak boleh negatif",
	"menu item not found":       "Menu tidak ditemukan",
	"invalid menu item id":      "ID menu tidak valid",
	"order not found":           "Pesanan tidak ditemukan",
	"invalid order id":          "Order ID tidak valid",
	"invalid table number":      "Nomor meja tidak valid",
	"quantity must be positive": "Jumlah harus lebih dari 0",
	"line item not found":       "Item tidak ada dalam pesanan",
	"invalid status":            "Status tidak valid",
	"store error":               "Terjadi kesalahan penyimpanan",
}

func localize(msg string) string {
	if m, ok := messages[msg]; ok {
		return m
	}
	switch {
	case strings.HasPrefix(msg, "menu item is used by open order"):
		return "Menu masih dipakai pesanan yang belum selesai (" + msg + ")"
	case strings.HasPrefix(msg, "cannot change status"):
		return "Perubahan status tidak diizinkan (" + msg + ")"
	}
	return msg
}
