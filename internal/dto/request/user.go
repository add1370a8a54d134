package request

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=agent1 agent2 account admin"`
}

// UpdateUserRequest only touches the fields that are present.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=agent1 agent2 account admin"`
	IsActive *bool   `json:"is_active,omitempty"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
}
