package request

type CreateSupplierRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	ContactInfo *string `json:"contact_info,omitempty" validate:"omitempty,max=500"`
}

type UpdateSupplierRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	ContactInfo *string `json:"contact_info,omitempty" validate:"omitempty,max=500"`
}
