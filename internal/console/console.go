package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"restaurant/internal/domain/model"
	"restaurant/internal/usecase"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// 入力が尽きた or 中断された
	errQuit = errors.New("console: quit")
	// 数値として読めない入力
	errInvalidNumber = errors.New("console: invalid number")
)

// Console is the interactive text front end. It reads one line per prompt
// and drives the usecases with the console actor.
type Console struct {
	in  io.Reader
	out io.Writer

	catalog *usecase.CatalogUsecase
	orders  *usecase.OrderUsecase
	reports *usecase.ReportUsecase

	restaurantName string
	defaultStock   int64
	logger         *zap.Logger

	lines <-chan string
}

func New(
	in io.Reader,
	out io.Writer,
	catalog *usecase.CatalogUsecase,
	orders *usecase.OrderUsecase,
	reports *usecase.ReportUsecase,
	restaurantName string,
	defaultStock int64,
	logger *zap.Logger,
) *Console {
	return &Console{
		in:             in,
		out:            out,
		catalog:        catalog,
		orders:         orders,
		reports:        reports,
		restaurantName: restaurantName,
		defaultStock:   defaultStock,
		logger:         logger,
	}
}

// Run shows the main menu until the user exits, input ends or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	ctx = usecase.WithActor(ctx, usecase.ActorConsole)

	// 読み取り側のgoroutineも止める
	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.lines = readLines(readCtx, c.in)

	for {
		renderMainMenu(c.out)
		choice, err := c.prompt(ctx, "Pilih menu (1-8): ")
		if err != nil {
			return c.stop(ctx)
		}

		quit, err := c.handleChoice(ctx, strings.TrimSpace(choice))
		if errors.Is(err, errQuit) {
			return c.stop(ctx)
		}
		if err != nil {
			c.reportError(err)
		}
		if quit {
			return nil
		}
	}
}

func (c *Console) stop(ctx context.Context) error {
	if ctx.Err() != nil {
		fmt.Fprintln(c.out, "\n\nProgram dihentikan oleh user.")
	}
	c.logger.Debug("console stopped")
	return nil
}

// 1回の操作で panic しても、ループは続ける
func (c *Console) handleChoice(ctx context.Context, choice string) (quit bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("console action panicked", zap.String("choice", choice), zap.Any("panic", r))
			err = fmt.Errorf("%v", r)
		}
	}()

	switch choice {
	case "1":
		return false, c.showMenu(ctx)
	case "2":
		return false, c.addMenuItem(ctx)
	case "3":
		return false, c.removeMenuItem(ctx)
	case "4":
		return false, c.newOrder(ctx)
	case "5":
		return false, c.showOrder(ctx)
	case "6":
		return false, c.changeStatus(ctx)
	case "7":
		return false, c.salesReport(ctx)
	case "8":
		fmt.Fprintln(c.out, "Terima kasih telah menggunakan sistem restoran!")
		return true, nil
	default:
		fmt.Fprintln(c.out, "Pilihan tidak valid!")
		return false, nil
	}
}

func (c *Console) showMenu(ctx context.Context) error {
	items, err := c.catalog.ListItems(ctx, "")
	if err != nil {
		return err
	}
	renderMenu(c.out, items, "")
	return nil
}

func (c *Console) addMenuItem(ctx context.Context) error {
	name, err := c.prompt(ctx, "Nama menu: ")
	if err != nil {
		return err
	}
	priceText, err := c.prompt(ctx, "Harga: ")
	if err != nil {
		return err
	}
	price, err := decimal.NewFromString(strings.TrimSpace(priceText))
	if err != nil {
		return errInvalidNumber
	}
	category, err := c.prompt(ctx, "Kategori: ")
	if err != nil {
		return err
	}
	stockText, err := c.prompt(ctx, fmt.Sprintf("Stok (default %d): ", c.defaultStock))
	if err != nil {
		return err
	}

	in := usecase.AddMenuItemInput{Name: name, Price: price, Category: category}
	if s := strings.TrimSpace(stockText); s != "" {
		stock, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return errInvalidNumber
		}
		in.Stock = &stock
	}

	it, err := c.catalog.AddItem(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Menu '%s' berhasil ditambahkan dengan ID %d\n", it.Name, it.ID)
	return nil
}

func (c *Console) removeMenuItem(ctx context.Context) error {
	if err := c.showMenu(ctx); err != nil {
		return err
	}
	id, err := c.promptInt(ctx, "ID menu yang akan dihapus: ")
	if err != nil {
		return err
	}

	it, err := c.catalog.RemoveItem(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Menu '%s' berhasil dihapus\n", it.Name)
	return nil
}

func (c *Console) newOrder(ctx context.Context) error {
	table, err := c.promptInt(ctx, "Nomor meja: ")
	if err != nil {
		return err
	}

	o, err := c.orders.CreateOrder(ctx, table)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Pesanan baru dibuat untuk meja %d dengan ID %d\n", o.TableNumber, o.ID)
	return c.orderEntry(ctx, o)
}

func (c *Console) showOrder(ctx context.Context) error {
	orders, err := c.orders.ListOrders(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Fprintln(c.out, "Belum ada pesanan")
		return nil
	}

	fmt.Fprintln(c.out, "\nDaftar Pesanan:")
	for _, o := range orders {
		fmt.Fprintf(c.out, "Order ID: %d - Meja %d - %s\n", o.ID, o.TableNumber, o.Status)
	}

	id, err := c.promptInt(ctx, "Masukkan Order ID: ")
	if err != nil {
		return err
	}
	o, err := c.orders.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	renderOrderDetail(c.out, o)
	return nil
}

func (c *Console) changeStatus(ctx context.Context) error {
	orders, err := c.orders.ListOrders(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Fprintln(c.out, "Belum ada pesanan")
		return nil
	}

	fmt.Fprintln(c.out, "\nDaftar Pesanan:")
	for _, o := range orders {
		fmt.Fprintf(c.out, "Order ID: %d - Status: %s\n", o.ID, o.Status)
	}

	id, err := c.promptInt(ctx, "Order ID: ")
	if err != nil {
		return err
	}
	status, err := c.prompt(ctx, "Status baru (pending/preparing/ready/completed): ")
	if err != nil {
		return err
	}

	o, err := c.orders.SetStatus(ctx, id, status)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Status pesanan %d diubah menjadi '%s'\n", o.ID, o.Status)
	return nil
}

func (c *Console) salesReport(ctx context.Context) error {
	r, err := c.reports.SalesReport(ctx)
	if err != nil {
		return err
	}
	renderSalesReport(c.out, r)
	return nil
}

// orderEntry is the per-order loop: a menu id adds a line, "hapus" removes
// one, "struk" prints the receipt and "selesai" closes the order.
func (c *Console) orderEntry(ctx context.Context, o model.Order) error {
	for {
		if err := c.showMenu(ctx); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "\nPesanan untuk meja %d (Order ID: %d)\n", o.TableNumber, o.ID)
		fmt.Fprintln(c.out, "Ketik 'selesai' untuk menyelesaikan pesanan")
		fmt.Fprintln(c.out, "Ketik 'struk' untuk melihat struk")
		fmt.Fprintln(c.out, "Ketik 'hapus' untuk menghapus item")

		action, err := c.prompt(ctx, "Masukkan ID menu atau perintah: ")
		if err != nil {
			return err
		}

		done, err := c.orderAction(ctx, o.ID, strings.ToLower(strings.TrimSpace(action)))
		if errors.Is(err, errQuit) {
			return err
		}
		if err != nil {
			c.reportError(err)
		}
		if done {
			return nil
		}
	}
}

func (c *Console) orderAction(ctx context.Context, orderID int64, action string) (done bool, err error) {
	switch action {
	case "selesai":
		o, err := c.orders.GetOrder(ctx, orderID)
		if err != nil {
			return true, err
		}
		// 空の注文は pending のまま
		if len(o.Items) == 0 {
			return true, nil
		}
		renderReceipt(c.out, c.restaurantName, o)
		o, err = c.orders.SetStatus(ctx, orderID, string(model.OrderStatusCompleted))
		if err != nil {
			return true, err
		}
		fmt.Fprintf(c.out, "Status pesanan %d diubah menjadi '%s'\n", o.ID, o.Status)
		return true, nil

	case "struk":
		o, err := c.orders.GetOrder(ctx, orderID)
		if err != nil {
			return false, err
		}
		renderReceipt(c.out, c.restaurantName, o)
		return false, nil

	case "hapus":
		return false, c.removeLine(ctx, orderID)

	default:
		menuItemID, err := strconv.ParseInt(action, 10, 64)
		if err != nil {
			fmt.Fprintln(c.out, "Input tidak valid")
			return false, nil
		}
		return false, c.addLine(ctx, orderID, menuItemID)
	}
}

func (c *Console) addLine(ctx context.Context, orderID int64, menuItemID int64) error {
	if _, err := c.catalog.GetItem(ctx, menuItemID); err != nil {
		if he, ok := usecase.AsHTTPError(err); ok && (he.Status == http.StatusNotFound || he.Status == http.StatusBadRequest) {
			fmt.Fprintln(c.out, "ID menu tidak valid")
			return nil
		}
		return err
	}

	qty, err := c.promptInt(ctx, "Jumlah: ")
	if err != nil {
		return err
	}

	o, err := c.orders.AddLineItem(ctx, orderID, menuItemID, qty)
	if err != nil {
		// 在庫不足は現在の在庫を見せる
		if he, ok := usecase.AsHTTPError(err); ok && he.Status == http.StatusConflict {
			if it, gerr := c.catalog.GetItem(ctx, menuItemID); gerr == nil {
				fmt.Fprintf(c.out, "Stok tidak cukup! Stok tersedia: %d\n", it.Stock)
				return nil
			}
		}
		return err
	}

	fmt.Fprintln(c.out, "Item berhasil ditambahkan ke pesanan")
	fmt.Fprintf(c.out, "Total sementara: %s\n", rupiah(o.Total))
	return nil
}

func (c *Console) removeLine(ctx context.Context, orderID int64) error {
	o, err := c.orders.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if len(o.Items) == 0 {
		fmt.Fprintln(c.out, "Tidak ada item dalam pesanan")
		return nil
	}

	fmt.Fprintln(c.out, "Item dalam pesanan:")
	for _, line := range o.Items {
		fmt.Fprintf(c.out, "%d. %s x%d\n", line.MenuItemID, line.NameSnapshot, line.Quantity)
	}

	menuItemID, err := c.promptInt(ctx, "ID item yang akan dihapus: ")
	if err != nil {
		return err
	}
	o, err = c.orders.RemoveLineItem(ctx, orderID, menuItemID)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Item berhasil dihapus dari pesanan")
	fmt.Fprintf(c.out, "Total sementara: %s\n", rupiah(o.Total))
	return nil
}

func (c *Console) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(c.out, label)
	select {
	case <-ctx.Done():
		return "", errQuit
	case line, ok := <-c.lines:
		if !ok {
			return "", errQuit
		}
		return line, nil
	}
}

func (c *Console) promptInt(ctx context.Context, label string) (int64, error) {
	s, err := c.prompt(ctx, label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errInvalidNumber
	}
	return n, nil
}

func (c *Console) reportError(err error) {
	if errors.Is(err, errInvalidNumber) {
		fmt.Fprintln(c.out, "Input tidak valid! Silakan masukkan angka.")
		return
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		fmt.Fprintf(c.out, "Gagal: %s\n", localize(he.Message))
		if he.Status >= http.StatusInternalServerError {
			c.logger.Error("console action failed", zap.Error(err))
		}
		return
	}
	c.logger.Error("console action failed", zap.Error(err))
	fmt.Fprintf(c.out, "Terjadi error: %v\n", err)
}

// readLines は入力を1行ずつ流す。EOF で close
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
