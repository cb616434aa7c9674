package auth

// RegisterRequest represents the registration request payload.
// Name is optional; email and password must be present.
type RegisterRequest struct {
	Name     string `json:"name" example:"Rahim"`
	Email    string `json:"email" validate:"required" example:"rahim@example.com"`
	Password string `json:"password" validate:"required" example:"strongpassword123"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required" example:"rahim@example.com"`
	Password string `json:"password" validate:"required" example:"strongpassword123"`
}

// RegisterResponse is returned after a successful registration. Nothing
// about the stored user is echoed back.
type RegisterResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"User registered successfully"`
}

// LoginResponse carries the access token.
type LoginResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Login successful"`
	Token   string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}
