package ledger

import (
	"fidelite/internal/models"

	"github.com/shopspring/decimal"
)

// Summarize totals txns. The average basket is revenue over transaction
// count, zero for an empty set.
func Summarize(txns []models.Transaction) Summary {
	s := Summary{Revenue: decimal.Zero, AverageBasket: decimal.Zero}
	customers := make(map[uint]struct{})
	merchants := make(map[uint]struct{})

	for _, t := range txns {
		s.TransactionCount++
		s.PointsAdded += t.PointsAdded
		s.PointsDeducted += t.PointsDeducted
		s.NetPoints += t.NetPoints
		s.Revenue = s.Revenue.Add(t.TotalRevenue)
		s.CouponsUsed += int64(t.UsedBons)
		customers[t.CustomerID] = struct{}{}
		merchants[t.MerchantID] = struct{}{}
	}

	s.DistinctCustomers = len(customers)
	s.DistinctMerchants = len(merchants)
	if s.TransactionCount > 0 {
		s.AverageBasket = s.Revenue.Div(decimal.NewFromInt(s.TransactionCount)).Round(2)
	}
	return s
}
