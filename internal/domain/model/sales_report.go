package model

import "github.com/shopspring/decimal"

// 売上レポートの1行（注文単位）
type SalesReportLine struct {
	OrderID     int64           `json:"order_id"`
	TableNumber int64           `json:"table_number"`
	Total       decimal.Decimal `json:"total"`
	Status      OrderStatus     `json:"status"`
	LineCount   int             `json:"line_count"`
}

// 売上レポート
// ステータスで絞らず、全注文を集計する
type SalesReport struct {
	OrderCount      int                 `json:"order_count"`
	TotalRevenue    decimal.Decimal     `json:"total_revenue"`
	AveragePerOrder decimal.NullDecimal `json:"average_per_order"`
	Orders          []SalesReportLine   `json:"orders"`
}

// averageScale is the number of decimal places kept for the average.
const averageScale = 2

// BuildSalesReport aggregates every order given, whatever its status.
// The average is left invalid when there are no orders.
func BuildSalesReport(orders []Order) SalesReport {
	report := SalesReport{
		TotalRevenue: decimal.Zero,
		Orders:       make([]SalesReportLine, 0, len(orders)),
	}

	for _, o := range orders {
		report.OrderCount++
		report.TotalRevenue = report.TotalRevenue.Add(o.Total)
		report.Orders = append(report.Orders, SalesReportLine{
			OrderID:     o.ID,
			TableNumber: o.TableNumber,
			Total:       o.Total,
			Status:      o.Status,
			LineCount:   len(o.Items),
		})
	}

	if report.OrderCount > 0 {
		avg := report.TotalRevenue.DivRound(decimal.NewFromInt(int64(report.OrderCount)), averageScale)
		report.AveragePerOrder = decimal.NullDecimal{Decimal: avg, Valid: true}
	}
	return report
}

func (r SalesReport) Empty() bool {
	return r.OrderCount == 0
}
