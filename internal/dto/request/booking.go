package request

import "github.com/shopspring/decimal"

type TravelLegRequest struct {
	TravelDate   string  `json:"travel_date" validate:"required,dateonly"`
	FromLocation string  `json:"from_location" validate:"required,max=100"`
	ToLocation   string  `json:"to_location" validate:"required,max=100"`
	ReturnDate   *string `json:"return_date,omitempty" validate:"omitempty,dateonly"`
}

type TravelDetailsRequest struct {
	SectorType string             `json:"sector_type" validate:"required,oneof=one_way round_trip multiple"`
	Legs       []TravelLegRequest `json:"legs" validate:"required,min=1,dive"`
	Note       *string            `json:"note,omitempty" validate:"omitempty,max=1000"`
}

// Amounts are decimals; positivity is checked by the finance rules, not tags.
type InstallmentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode string          `json:"payment_mode" validate:"required,oneof=cash cheque credit_card upi bank_transfer"`
	PaymentDate string          `json:"payment_date" validate:"required,dateonly"`
	ReferenceNo *string         `json:"reference_no,omitempty" validate:"omitempty,max=100"`
}

type CreateBookingRequest struct {
	PaxName       string               `json:"pax_name" validate:"required,max=200"`
	ContactPerson *string              `json:"contact_person,omitempty" validate:"omitempty,max=200"`
	ContactNumber string               `json:"contact_number" validate:"required,phone10"`
	PNR           string               `json:"pnr" validate:"required,min=5,max=20,alphanum"`
	TravelDetails TravelDetailsRequest `json:"travel_details"`
	Airline       string               `json:"airline" validate:"required,max=100"`
	SupplierID    string               `json:"supplier_id" validate:"required,uuid"`
	OurCost       decimal.Decimal      `json:"our_cost"`
	SalePrice     decimal.Decimal      `json:"sale_price"`
	PaymentType   string               `json:"payment_type" validate:"required,oneof=full_payment installments"`
	Installments  []InstallmentRequest `json:"installments,omitempty" validate:"omitempty,dive"`
}

// UpdateCommercialRequest leaves absent fields unchanged. A present
// installments list replaces the stored one.
type UpdateCommercialRequest struct {
	SupplierID   *string              `json:"supplier_id,omitempty" validate:"omitempty,uuid"`
	OurCost      *decimal.Decimal     `json:"our_cost,omitempty"`
	SalePrice    *decimal.Decimal     `json:"sale_price,omitempty"`
	PaymentType  *string              `json:"payment_type,omitempty" validate:"omitempty,oneof=full_payment installments"`
	Installments []InstallmentRequest `json:"installments,omitempty" validate:"omitempty,dive"`
}

type UpdateBillingRequest struct {
	BillingStatus        string          `json:"billing_status" validate:"required,oneof=unpaid partial_paid fully_paid"`
	PaidAmountToSupplier decimal.Decimal `json:"paid_amount_to_supplier"`
}

type BookingListRequest struct {
	PaginatedRequest
	Status string `json:"status" validate:"omitempty,oneof=draft submitted pending_verification account_verified admin_verified billed paid"`
	Search string `json:"search" validate:"omitempty,max=50"`
}
