package users

// Profile is the public view of an account.
// @Description User profile information
type Profile struct {
	Name  string `json:"name" example:"Rahim"`
	Email string `json:"email" example:"rahim@example.com"`
}

// ProfileResponse wraps a Profile in the success envelope.
type ProfileResponse struct {
	Success bool    `json:"success" example:"true"`
	Data    Profile `json:"data"`
}
