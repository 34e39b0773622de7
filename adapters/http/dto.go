package http

import (
	"github.com/haiminh/geoatlas/internal/domain/user"
)

// UserDTO is the sanitized external projection of a User. Password hash,
// reset fields and timestamps never appear here.
type UserDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func ToUserDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
	}
}
