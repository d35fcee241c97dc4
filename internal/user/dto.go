package user

// UpdateUserRequest represents the request to update profile fields
type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	PixKey *string `json:"pix_key,omitempty" validate:"omitempty,max=140"`
}

// UserResponse represents the response for a user
type UserResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	PixKey    *string `json:"pix_key,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// ToResponse converts a User model to a UserResponse DTO
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		PixKey:    u.PixKey,
		CreatedAt: u.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
