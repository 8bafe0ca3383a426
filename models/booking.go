package models

import "time"

// Booking is a request by CreatedBy to borrow ItemID until ReturnBy.
// OwnerID is the item owner at the time the request was made.
type Booking struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ItemID    uint      `gorm:"not null;index" json:"item_id"`
	Item      Item      `gorm:"foreignKey:ItemID" json:"-"`
	OwnerID   uint      `gorm:"not null;index" json:"owner_id"`
	Lender    User      `gorm:"foreignKey:OwnerID" json:"-"`
	CreatedBy uint      `gorm:"not null;index" json:"created_by"`
	Borrower  User      `gorm:"foreignKey:CreatedBy" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	ReturnBy  time.Time `gorm:"not null" json:"return_by"`
	Confirmed bool      `gorm:"not null;default:false" json:"confirmed"`
}

// BorrowedItem is a confirmed booking seen by the borrower, with the
// lender's postcode.
type BorrowedItem struct {
	ItemView
	BookingID uint   `json:"booking_id"`
	ReturnBy  Date   `json:"return_by"`
	Postcode  string `json:"postcode"`
}

// LentItem is a booking seen by the item owner, with the requester's
// username.
type LentItem struct {
	ItemView
	BookingID uint   `json:"booking_id"`
	ReturnBy  Date   `json:"return_by"`
	Confirmed bool   `json:"confirmed"`
	Username  string `json:"username"`
}
