package dto

import (
	"time"

	"staybook/internal/domain/user"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func UserFromDomain(u *user.User) User {
	return User{
		ID:        string(u.ID),
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

// Author is the trimmed user snapshot attached to comments.
type Author struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func AuthorFromDomain(u *user.User) Author {
	if u == nil {
		return Author{}
	}
	return Author{
		ID:        string(u.ID),
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
}
