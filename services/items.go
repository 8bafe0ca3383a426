package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sidhant-sriv/consumeless/models"
)

type ItemInput struct {
	Name          string `form:"name" json:"name" validate:"required"`
	Description   string `form:"description" json:"description" validate:"required"`
	Category      string `form:"category" json:"category" validate:"required"`
	Deposit       string `form:"deposit" json:"deposit" validate:"required"`
	OverdueCharge string `form:"overdue_charge" json:"overdue_charge" validate:"required"`
}

type ItemService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewItemService(conn *gorm.DB) *ItemService {
	return &ItemService{db: conn, now: time.Now}
}

func (s *ItemService) All(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := s.db.WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (s *ItemService) OwnedBy(ctx context.Context, ownerID uint) ([]models.Item, error) {
	var items []models.Item
	if err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list items of user %d: %w", ownerID, err)
	}
	return items, nil
}

func (s *ItemService) Get(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	if err := s.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrNotFound, "Item not found")
		}
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	return &item, nil
}

// Create lists a new item for ownerID. The owner's coordinates are copied
// onto the item.
func (s *ItemService) Create(ctx context.Context, ownerID uint, in ItemInput) (*models.Item, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	deposit, err := parseAmount("deposit", in.Deposit)
	if err != nil {
		return nil, err
	}
	overdue, err := parseAmount("overdue_charge", in.OverdueCharge)
	if err != nil {
		return nil, err
	}

	conn := s.db.WithContext(ctx)

	var owner models.User
	if err := conn.Select("id", "latitude", "longitude").First(&owner, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("get owner %d: %w", ownerID, err)
	}

	item := models.Item{
		Name:          in.Name,
		Description:   in.Description,
		Category:      in.Category,
		OwnerID:       owner.ID,
		Deposit:       deposit,
		OverdueCharge: overdue,
		CreatedAt:     s.now().UTC(),
		Available:     true,
		Latitude:      owner.Latitude,
		Longitude:     owner.Longitude,
	}
	if err := conn.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return &item, nil
}

// AvailableInCategory returns the items in category that have no booking
// at all, confirmed or not.
func (s *ItemService) AvailableInCategory(ctx context.Context, category string) ([]models.Item, error) {
	conn := s.db.WithContext(ctx)
	booked := conn.Model(&models.Booking{}).Select("item_id")

	var items []models.Item
	if err := conn.Where("category = ? AND id NOT IN (?)", category, booked).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list category %q: %w", category, err)
	}
	return items, nil
}

// maxAmount is the first value a decimal(12,2) column cannot hold.
var maxAmount = decimal.New(1, 10)

// parseAmount accepts what the money columns store exactly: non-negative,
// below maxAmount, at most two decimal places.
func parseAmount(field, v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return decimal.Decimal{}, newError(ErrBadRequest, "Field %s must be a number", field)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, newError(ErrBadRequest, "Field %s must not be negative", field)
	}
	if !d.Equal(d.Round(2)) {
		return decimal.Decimal{}, newError(ErrBadRequest, "Field %s must have at most 2 decimal places", field)
	}
	if d.GreaterThanOrEqual(maxAmount) {
		return decimal.Decimal{}, newError(ErrBadRequest, "Field %s must be less than %s", field, maxAmount)
	}
	return d.Round(2), nil
}
