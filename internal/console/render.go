package console

import (
	"fmt"
	"io"

	"restaurant/internal/domain/model"
)

const (
	menuWidth    = 60
	receiptWidth = 50
	detailWidth  = 40
)

func renderMainMenu(w io.Writer) {
	fmt.Fprintf(w, "\n%s\n", rule("=", menuWidth))
	fmt.Fprintln(w, center("SISTEM MANAJEMEN RESTORAN", menuWidth))
	fmt.Fprintln(w, rule("=", menuWidth))
	fmt.Fprintln(w, "1. Tampilkan Menu")
	fmt.Fprintln(w, "2. Tambah Menu")
	fmt.Fprintln(w, "3. Hapus Menu")
	fmt.Fprintln(w, "4. Buat Pesanan Baru")
	fmt.Fprintln(w, "5. Tampilkan Pesanan")
	fmt.Fprintln(w, "6. Ubah Status Pesanan")
	fmt.Fprintln(w, "7. Laporan Penjualan")
	fmt.Fprintln(w, "8. Keluar")
	fmt.Fprintln(w, rule("=", menuWidth))
}

// カテゴリごと（最初に出てきた順）に表示
func renderMenu(w io.Writer, items []model.MenuItem, category string) {
	fmt.Fprintf(w, "\n%s\n", rule("=", menuWidth))
	fmt.Fprintln(w, center("MENU RESTORAN", menuWidth))
	fmt.Fprintln(w, rule("=", menuWidth))
	if category != "" {
		fmt.Fprintf(w, "Kategori: %s\n", category)
	}

	for _, g := range model.GroupByCategory(items) {
		fmt.Fprintf(w, "\n%s:\n", g.Category)
		fmt.Fprintln(w, rule("-", menuWidth))
		for _, it := range g.Items {
			fmt.Fprintf(w, "%2d. %s - %s (%s) - Stok: %d\n", it.ID, it.Name, rupiah(it.Price), it.Category, it.Stock)
		}
	}
	fmt.Fprintln(w, rule("=", menuWidth))
}

// 明細は追加時点の名前・価格で表示する
func renderReceipt(w io.Writer, restaurantName string, o model.Order) {
	fmt.Fprintf(w, "\n%s\n", rule("=", receiptWidth))
	fmt.Fprintln(w, center(restaurantName, receiptWidth))
	fmt.Fprintln(w, rule("=", receiptWidth))
	fmt.Fprintf(w, "Order ID: %d\n", o.ID)
	fmt.Fprintf(w, "Nomor Meja: %d\n", o.TableNumber)
	fmt.Fprintf(w, "Waktu: %s\n", o.CreatedAt.Format(timeLayout))
	fmt.Fprintln(w, rule("-", receiptWidth))

	for _, line := range o.Items {
		fmt.Fprintf(w, "%-25s %dx Rp%8s = Rp%10s\n",
			line.NameSnapshot, line.Quantity, formatAmount(line.UnitPriceSnapshot), formatAmount(line.Subtotal))
	}

	fmt.Fprintln(w, rule("-", receiptWidth))
	fmt.Fprintf(w, "%-40s Rp%10s\n", "TOTAL", formatAmount(o.Total))
	fmt.Fprintf(w, "%s\n\n", rule("=", receiptWidth))
}

func renderOrderDetail(w io.Writer, o model.Order) {
	fmt.Fprintf(w, "\nPesanan ID: %d\n", o.ID)
	fmt.Fprintf(w, "Meja: %d\n", o.TableNumber)
	fmt.Fprintf(w, "Status: %s\n", o.Status)
	fmt.Fprintf(w, "Waktu: %s\n", o.CreatedAt.Format(timeLayout))
	fmt.Fprintln(w, rule("-", detailWidth))

	if len(o.Items) == 0 {
		fmt.Fprintln(w, "Belum ada item dalam pesanan")
		return
	}
	for _, line := range o.Items {
		fmt.Fprintf(w, "%s x%d = %s\n", line.NameSnapshot, line.Quantity, rupiah(line.Subtotal))
	}
	fmt.Fprintln(w, rule("-", detailWidth))
	fmt.Fprintf(w, "Total: %s\n", rupiah(o.Total))
}

func renderSalesReport(w io.Writer, r model.SalesReport) {
	fmt.Fprintf(w, "\n%s\n", rule("=", menuWidth))
	fmt.Fprintln(w, center("LAPORAN PENJUALAN", menuWidth))
	fmt.Fprintln(w, rule("=", menuWidth))

	if r.Empty() {
		fmt.Fprintln(w, "Belum ada pesanan")
		fmt.Fprintln(w, rule("=", menuWidth))
		return
	}

	fmt.Fprintf(w, "Total Pesanan: %d\n", r.OrderCount)
	fmt.Fprintln(w, rule("-", menuWidth))
	for _, l := range r.Orders {
		fmt.Fprintf(w, "Order #%d - Meja %d - %s - %s\n", l.OrderID, l.TableNumber, rupiah(l.Total), l.Status)
	}
	fmt.Fprintln(w, rule("-", menuWidth))
	fmt.Fprintf(w, "Total Pendapatan: %s\n", rupiah(r.TotalRevenue))
	if r.AveragePerOrder.Valid {
		fmt.Fprintf(w, "Rata-rata per Pesanan: %s\n", rupiah(r.AveragePerOrder.Decimal))
	}
	fmt.Fprintln(w, rule("=", menuWidth))
}
