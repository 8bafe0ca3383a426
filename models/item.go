package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Item struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `gorm:"not null" json:"description"`
	Category      string          `gorm:"not null;index" json:"category"`
	OwnerID       uint            `gorm:"not null;index" json:"owner_id"`
	Owner         User            `gorm:"foreignKey:OwnerID" json:"-"`
	Deposit       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"deposit"`
	OverdueCharge decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"overdue_charge"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	Available     bool            `gorm:"not null;default:true" json:"available"`
	// Coordinates are copied from the owner when the item is listed and are
	// not kept in sync afterwards.
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type ItemView struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	OwnerID       uint            `json:"owner_id"`
	Deposit       decimal.Decimal `json:"deposit"`
	OverdueCharge decimal.Decimal `json:"overdue_charge"`
	CreatedAt     Date            `json:"created_at"`
	Longitude     *float64        `json:"longitude"`
	Latitude      *float64        `json:"latitude"`
}

func (i Item) View() ItemView {
	return ItemView{
		ID:            i.ID,
		Name:          i.Name,
		Description:   i.Description,
		Category:      i.Category,
		OwnerID:       i.OwnerID,
		Deposit:       i.Deposit,
		OverdueCharge: i.OverdueCharge,
		CreatedAt:     Date(i.CreatedAt),
		Longitude:     i.Longitude,
		Latitude:      i.Latitude,
	}
}

func ItemViews(items []Item) []ItemView {
	out := make([]ItemView, 0, len(items))
	for _, i := range items {
		out = append(out, i.View())
	}
	return out
}
