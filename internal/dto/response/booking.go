package response

import (
	"time"

	"flight-booking/internal/data/entity"
	"flight-booking/internal/finance"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingResponse struct {
	ID            string               `json:"id"`
	PaxName       string               `json:"pax_name"`
	ContactPerson *string              `json:"contact_person,omitempty"`
	ContactNumber string               `json:"contact_number"`
	PNR           string               `json:"pnr"`
	Airline       string               `json:"airline"`
	SupplierID    string               `json:"supplier_id"`
	TravelDetails entity.TravelDetails `json:"travel_details"`
	OurCost       decimal.Decimal      `json:"our_cost"`
	SalePrice     decimal.Decimal      `json:"sale_price"`
	PaymentType   entity.PaymentType   `json:"payment_type"`
	Installments  []entity.Installment `json:"installments"`
	Status        entity.BookingStatus `json:"status"`
	CreatedBy     string               `json:"created_by"`
	SubmittedAt   *time.Time           `json:"submitted_at,omitempty"`

	AccountVerifiedBy *string    `json:"account_verified_by,omitempty"`
	AccountVerifiedAt *time.Time `json:"account_verified_at,omitempty"`
	AdminVerifiedBy   *string    `json:"admin_verified_by,omitempty"`
	AdminVerifiedAt   *time.Time `json:"admin_verified_at,omitempty"`

	BillingStatus        entity.BillingStatus `json:"billing_status"`
	PaidAmountToSupplier decimal.Decimal      `json:"paid_amount_to_supplier"`

	TotalPaid decimal.Decimal `json:"total_paid"`
	Balance   decimal.Decimal `json:"balance"`
	Margin    decimal.Decimal `json:"margin"`

	AllowedActions []string  `json:"allowed_actions"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// BookingToResponse renders b with totals computed from its installments.
func BookingToResponse(b *entity.Booking, totals finance.Totals, allowed []string) BookingResponse {
	installments := b.Installments
	if installments == nil {
		installments = []entity.Installment{}
	}
	if allowed == nil {
		allowed = []string{}
	}

	return BookingResponse{
		ID:                   b.ID.String(),
		PaxName:              b.PaxName,
		ContactPerson:        b.ContactPerson,
		ContactNumber:        b.ContactNumber,
		PNR:                  b.PNR,
		Airline:              b.Airline,
		SupplierID:           b.SupplierID.String(),
		TravelDetails:        b.TravelDetails,
		OurCost:              b.OurCost,
		SalePrice:            b.SalePrice,
		PaymentType:          b.PaymentType,
		Installments:         installments,
		Status:               b.Status,
		CreatedBy:            b.CreatedBy.String(),
		SubmittedAt:          b.SubmittedAt,
		AccountVerifiedBy:    uuidPtrString(b.AccountVerifiedBy),
		AccountVerifiedAt:    b.AccountVerifiedAt,
		AdminVerifiedBy:      uuidPtrString(b.AdminVerifiedBy),
		AdminVerifiedAt:      b.AdminVerifiedAt,
		BillingStatus:        b.BillingStatus,
		PaidAmountToSupplier: b.PaidAmountToSupplier,
		TotalPaid:            totals.TotalPaid,
		Balance:              totals.Balance,
		Margin:               totals.Margin,
		AllowedActions:       allowed,
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}
}
