package model

import "time"

type Admin struct {
	AdminID      int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never JSON-encode
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}
