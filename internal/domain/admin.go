package domain

import "time"

type Admin struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // bcrypt hash, never the plaintext
	CreatedAt time.Time `json:"created_at"`
}
