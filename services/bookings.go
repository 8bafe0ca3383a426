package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sidhant-sriv/consumeless/models"
)

// MaxBookingDays bounds the loan period a requester may ask for.
const MaxBookingDays = 365

type BookingService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewBookingService(conn *gorm.DB) *BookingService {
	return &BookingService{db: conn, now: time.Now}
}

// canConfirm: only the owner recorded on the booking may accept it.
func canConfirm(callerID uint, b models.Booking) bool {
	return b.OwnerID == callerID
}

// canDelete: the owner may decline, the requester may withdraw.
func canDelete(callerID uint, b models.Booking) bool {
	return b.OwnerID == callerID || b.CreatedBy == callerID
}

// Create records a request by requesterID to borrow itemID for days days.
// The item's current owner is copied onto the booking.
func (s *BookingService) Create(ctx context.Context, requesterID, itemID uint, days int) (*models.Booking, error) {
	if days <= 0 || days > MaxBookingDays {
		return nil, newError(ErrBadRequest, "return_by must be between 1 and %d days", MaxBookingDays)
	}

	conn := s.db.WithContext(ctx)

	var item models.Item
	if err := conn.Select("id", "owner_id").First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrNotFound, "Item not found")
		}
		return nil, fmt.Errorf("get item %d: %w", itemID, err)
	}
	if item.OwnerID == requesterID {
		return nil, newError(ErrBadRequest, "You cannot book your own item")
	}

	now := s.now().UTC()
	booking := models.Booking{
		ItemID:    item.ID,
		OwnerID:   item.OwnerID,
		CreatedBy: requesterID,
		CreatedAt: now,
		ReturnBy:  now.Add(time.Duration(days) * 24 * time.Hour),
	}
	if err := conn.Create(&booking).Error; err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return &booking, nil
}

// Confirm accepts a pending booking. Confirming twice succeeds. It fails with
// ErrConflict when another confirmed booking of the same item overlaps.
//
// Lock order: the booking row, then its item row, then the overlap count.
// Every read before the count is a locking read, so under REPEATABLE READ
// (MySQL) the count's snapshot is taken only once the item lock is held and
// sees any confirmation committed by the previous holder.
func (s *BookingService) Confirm(ctx context.Context, callerID, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(ErrNotFound, "Booking not found")
			}
			return fmt.Errorf("get booking %d: %w", bookingID, err)
		}
		if !canConfirm(callerID, booking) {
			return newError(ErrForbidden, "Only the item owner can confirm this booking")
		}
		if booking.Confirmed {
			return nil
		}

		var item models.Item
		if err := forUpdate(tx).Select("id").First(&item, booking.ItemID).Error; err != nil {
			return fmt.Errorf("lock item %d: %w", booking.ItemID, err)
		}

		var overlapping int64
		if err := tx.Model(&models.Booking{}).
			Where("item_id = ? AND confirmed = ? AND id <> ?", booking.ItemID, true, booking.ID).
			Where("created_at < ? AND return_by > ?", booking.ReturnBy, booking.CreatedAt).
			Count(&overlapping).Error; err != nil {
			return fmt.Errorf("check overlapping bookings: %w", err)
		}
		if overlapping > 0 {
			return newError(ErrConflict, "Item is already lent out for this period")
		}

		if err := tx.Model(&booking).Update("confirmed", true).Error; err != nil {
			return fmt.Errorf("confirm booking %d: %w", booking.ID, err)
		}
		booking.Confirmed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// forUpdate makes the next query a SELECT ... FOR UPDATE. SQLite has no row
// locks and serializes writers on its own.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Delete removes a booking in any state.
func (s *BookingService) Delete(ctx context.Context, callerID, bookingID uint) error {
	conn := s.db.WithContext(ctx)

	var booking models.Booking
	if err := conn.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newError(ErrNotFound, "Booking not found")
		}
		return fmt.Errorf("get booking %d: %w", bookingID, err)
	}
	if !canDelete(callerID, booking) {
		return newError(ErrForbidden, "Only the item owner or the requester can delete this booking")
	}

	res := conn.Delete(&models.Booking{}, booking.ID)
	if res.Error != nil {
		return fmt.Errorf("delete booking %d: %w", booking.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return newError(ErrNotFound, "Booking not found")
	}
	return nil
}

// bookingRow is one booking joined with its item and one user column.
type bookingRow struct {
	BookingID     uint
	ReturnBy      time.Time
	Confirmed     bool
	ItemID        uint
	Name          string
	Description   string
	Category      string
	OwnerID       uint
	Deposit       decimal.Decimal
	OverdueCharge decimal.Decimal
	CreatedAt     time.Time
	Latitude      *float64
	Longitude     *float64
	Postcode      string
	Username      string
}

func (r bookingRow) itemView() models.ItemView {
	return models.ItemView{
		ID:            r.ItemID,
		Name:          r.Name,
		Description:   r.Description,
		Category:      r.Category,
		OwnerID:       r.OwnerID,
		Deposit:       r.Deposit,
		OverdueCharge: r.OverdueCharge,
		CreatedAt:     models.Date(r.CreatedAt),
		Longitude:     r.Longitude,
		Latitude:      r.Latitude,
	}
}

const bookingItemColumns = "bookings.id AS booking_id, bookings.return_by, bookings.confirmed, " +
	"items.id AS item_id, items.name, items.description, items.category, items.owner_id, " +
	"items.deposit, items.overdue_charge, items.created_at, items.latitude, items.longitude"

// ListCreatedBy returns the confirmed bookings made by userID, with the
// lender's postcode.
func (s *BookingService) ListCreatedBy(ctx context.Context, userID uint) ([]models.BorrowedItem, error) {
	var rows []bookingRow
	err := s.db.WithContext(ctx).
		Table("bookings").
		Select(bookingItemColumns+", users.postcode").
		Joins("JOIN items ON items.id = bookings.item_id").
		Joins("JOIN users ON users.id = items.owner_id").
		Where("bookings.created_by = ? AND bookings.confirmed = ?", userID, true).
		Order("bookings.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings created by %d: %w", userID, err)
	}

	out := make([]models.BorrowedItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.BorrowedItem{
			ItemView:  r.itemView(),
			BookingID: r.BookingID,
			ReturnBy:  models.Date(r.ReturnBy),
			Postcode:  r.Postcode,
		})
	}
	return out, nil
}

// ListForOwner returns the bookings on ownerID's items with the given
// confirmed state, with the requester's username.
func (s *BookingService) ListForOwner(ctx context.Context, ownerID uint, confirmed bool) ([]models.LentItem, error) {
	var rows []bookingRow
	err := s.db.WithContext(ctx).
		Table("bookings").
		Select(bookingItemColumns+", users.username").
		Joins("JOIN items ON items.id = bookings.item_id").
		Joins("JOIN users ON users.id = bookings.created_by").
		Where("bookings.owner_id = ? AND bookings.confirmed = ?", ownerID, confirmed).
		Order("bookings.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings for owner %d: %w", ownerID, err)
	}

	out := make([]models.LentItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.LentItem{
			ItemView:  r.itemView(),
			BookingID: r.BookingID,
			ReturnBy:  models.Date(r.ReturnBy),
			Confirmed: r.Confirmed,
			Username:  r.Username,
		})
	}
	return out, nil
}
