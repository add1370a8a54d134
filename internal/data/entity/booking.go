package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusDraft               BookingStatus = "draft"
	BookingStatusSubmitted           BookingStatus = "submitted"
	BookingStatusPendingVerification BookingStatus = "pending_verification"
	BookingStatusAccountVerified     BookingStatus = "account_verified"
	BookingStatusAdminVerified       BookingStatus = "admin_verified"
	BookingStatusBilled              BookingStatus = "billed"
	BookingStatusPaid                BookingStatus = "paid"
)

// BookingStatuses lists every status in workflow order.
var BookingStatuses = []BookingStatus{
	BookingStatusDraft,
	BookingStatusSubmitted,
	BookingStatusPendingVerification,
	BookingStatusAccountVerified,
	BookingStatusAdminVerified,
	BookingStatusBilled,
	BookingStatusPaid,
}

// Canonical folds "submitted" into "pending_verification"; nothing
// advances a booking from one to the other, so they are the same state.
func (s BookingStatus) Canonical() BookingStatus {
	if s == BookingStatusSubmitted {
		return BookingStatusPendingVerification
	}
	return s
}

// Equivalents lists the stored spellings of s's canonical state.
func (s BookingStatus) Equivalents() []BookingStatus {
	if s.Canonical() == BookingStatusPendingVerification {
		return []BookingStatus{BookingStatusPendingVerification, BookingStatusSubmitted}
	}
	return []BookingStatus{s}
}

func (s BookingStatus) Valid() bool {
	for _, st := range BookingStatuses {
		if s == st {
			return true
		}
	}
	return false
}

type PaymentType string

const (
	PaymentTypeFull         PaymentType = "full_payment"
	PaymentTypeInstallments PaymentType = "installments"
)

type SectorType string

const (
	SectorOneWay    SectorType = "one_way"
	SectorRoundTrip SectorType = "round_trip"
	SectorMultiple  SectorType = "multiple"
)

type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "cash"
	PaymentModeCheque       PaymentMode = "cheque"
	PaymentModeCreditCard   PaymentMode = "credit_card"
	PaymentModeUPI          PaymentMode = "upi"
	PaymentModeBankTransfer PaymentMode = "bank_transfer"
)

type BillingStatus string

const (
	BillingStatusUnpaid      BillingStatus = "unpaid"
	BillingStatusPartialPaid BillingStatus = "partial_paid"
	BillingStatusFullyPaid   BillingStatus = "fully_paid"
)

type TravelLeg struct {
	TravelDate   string  `json:"travel_date"`
	FromLocation string  `json:"from_location"`
	ToLocation   string  `json:"to_location"`
	ReturnDate   *string `json:"return_date,omitempty"`
}

type TravelDetails struct {
	SectorType SectorType  `json:"sector_type"`
	Legs       []TravelLeg `json:"legs"`
	Note       *string     `json:"note,omitempty"`
}

type Installment struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode PaymentMode     `json:"payment_mode"`
	PaymentDate string          `json:"payment_date"`
	ReferenceNo *string         `json:"reference_no,omitempty"`
}

type Booking struct {
	Base
	PaxName       string        `db:"pax_name"`
	ContactPerson *string       `db:"contact_person"`
	ContactNumber string        `db:"contact_number"`
	PNR           string        `db:"pnr"`
	Airline       string        `db:"airline"`
	SupplierID    uuid.UUID     `db:"supplier_id"`
	TravelDetails TravelDetails `db:"travel_details"`

	OurCost      decimal.Decimal `db:"our_cost"`
	SalePrice    decimal.Decimal `db:"sale_price"`
	PaymentType  PaymentType     `db:"payment_type"`
	Installments []Installment   `db:"installments"`

	Status            BookingStatus `db:"status"`
	CreatedBy         uuid.UUID     `db:"created_by"`
	SubmittedAt       *time.Time    `db:"submitted_at"`
	AccountVerifiedBy *uuid.UUID    `db:"account_verified_by"`
	AccountVerifiedAt *time.Time    `db:"account_verified_at"`
	AdminVerifiedBy   *uuid.UUID    `db:"admin_verified_by"`
	AdminVerifiedAt   *time.Time    `db:"admin_verified_at"`

	BillingStatus        BillingStatus   `db:"billing_status"`
	PaidAmountToSupplier decimal.Decimal `db:"paid_amount_to_supplier"`
}

// IsVerified reports whether any verification has been recorded.
// Verified bookings are locked for commercial edits except by admin.
func (b *Booking) IsVerified() bool {
	return b.AccountVerifiedBy != nil || b.AdminVerifiedBy != nil
}

// Clone returns a deep copy, so a transition can be computed without
// touching the loaded booking.
func (b *Booking) Clone() *Booking {
	c := *b
	c.TravelDetails.Legs = append([]TravelLeg(nil), b.TravelDetails.Legs...)
	c.Installments = append([]Installment(nil), b.Installments...)
	return &c
}
