package request

import "github.com/shopspring/decimal"

type CancellationDetails struct {
	PaymentModeWas    string           `json:"payment_mode_was" validate:"required,oneof=cash cheque credit_card upi bank_transfer"`
	TotalPaidByClient decimal.Decimal  `json:"total_paid_by_client"`
	RefundableAmount  decimal.Decimal  `json:"refundable_amount"`
	OldMargin         decimal.Decimal  `json:"old_margin"`
	CommittedToClient *decimal.Decimal `json:"committed_to_client,omitempty"`
	ChargeFromClient  *decimal.Decimal `json:"charge_from_client,omitempty"`
	RefundProcessed   bool             `json:"refund_processed"`
	Remarks           string           `json:"remarks" validate:"required,max=1000"`
}

type DateChangeDetails struct {
	NewTravelDetails TravelDetailsRequest `json:"new_travel_details"`
	OurCost          decimal.Decimal      `json:"our_cost"`
	SalePrice        decimal.Decimal      `json:"sale_price"`
	Remarks          string               `json:"remarks" validate:"required,max=1000"`
}

type FlightChangeDetails struct {
	NewTravelDetails TravelDetailsRequest `json:"new_travel_details"`
	NewAirline       string               `json:"new_airline" validate:"required,max=100"`
	OurCost          decimal.Decimal      `json:"our_cost"`
	SalePrice        decimal.Decimal      `json:"sale_price"`
	Remarks          string               `json:"remarks" validate:"required,max=1000"`
}

type CreateModificationRequest struct {
	BookingID           string               `json:"booking_id" validate:"required,uuid"`
	ModificationType    string               `json:"modification_type" validate:"required,oneof=date_change flight_change cancellation"`
	CancellationDetails *CancellationDetails `json:"cancellation_details,omitempty" validate:"required_if=ModificationType cancellation"`
	DateChangeDetails   *DateChangeDetails   `json:"date_change_details,omitempty" validate:"required_if=ModificationType date_change"`
	FlightChangeDetails *FlightChangeDetails `json:"flight_change_details,omitempty" validate:"required_if=ModificationType flight_change"`
}
