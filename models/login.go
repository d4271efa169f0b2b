package models

import "time"

type LoginInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Identifier returns whichever login handle the client sent, email first.
func (in LoginInput) Identifier() string {
	if in.Email != "" {
		return in.Email
	}
	return in.Username
}

type LoginResult struct {
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsDoctor  bool      `json:"is_doctor"`
	IsAdmin   bool      `json:"is_admin"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
