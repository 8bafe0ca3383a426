package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:120;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"` // hide from JSON response
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	Postcode     string    `gorm:"size:10" json:"postcode"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
}

// UserView is the public representation of a user.
type UserView struct {
	ID        uint     `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	CreatedAt Date     `json:"created_at"`
	Postcode  string   `json:"postcode"`
	Longitude *float64 `json:"longitude"`
	Latitude  *float64 `json:"latitude"`
}

func (u User) View() UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: Date(u.CreatedAt),
		Postcode:  u.Postcode,
		Longitude: u.Longitude,
		Latitude:  u.Latitude,
	}
}
