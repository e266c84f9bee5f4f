package models

// Broker is the seller-side user who owns listings
type Broker struct {
	ID    Number `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Phone    string `json:"phone" form:"phone" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" form:"name" validate:"required,min=2"`
	Phone    string `json:"phone" form:"phone" validate:"required,phone10"`
	Email    string `json:"email,omitempty" form:"email" validate:"omitempty,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

// AuthResponse is returned by both login and register
type AuthResponse struct {
	Token  string `json:"token"`
	Broker Broker `json:"broker"`
}

type ForgotPasswordRequest struct {
	Phone string `json:"phone"`
}
