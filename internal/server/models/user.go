package models

import "time"

// User is a stored credential. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MonthlyCount is the number of records created in one calendar month.
type MonthlyCount struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Total int `json:"total"`
}
