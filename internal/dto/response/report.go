package response

import "github.com/shopspring/decimal"

type OutstandingBalanceItem struct {
	BookingID    string          `json:"booking_id"`
	PNR          string          `json:"pnr"`
	PaxName      string          `json:"pax_name"`
	SupplierName string          `json:"supplier_name"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    string          `json:"created_at"`
}

type OutstandingBalanceReport struct {
	Items            []OutstandingBalanceItem `json:"items"`
	TotalOutstanding decimal.Decimal          `json:"total_outstanding"`
}

type DashboardStats struct {
	TotalBookings       int             `json:"total_bookings"`
	PendingVerification int             `json:"pending_verification"`
	AccountVerified     int             `json:"account_verified"`
	AdminVerified       int             `json:"admin_verified"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	TotalCost           decimal.Decimal `json:"total_cost"`
	TotalMargin         decimal.Decimal `json:"total_margin"`
	OutstandingBalance  decimal.Decimal `json:"outstanding_balance"`
}
