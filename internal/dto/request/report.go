package request

type ReportRequest struct {
	From string `json:"from" validate:"omitempty,dateonly"`
	To   string `json:"to" validate:"omitempty,dateonly"`
}
