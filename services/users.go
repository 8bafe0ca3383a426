package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sidhant-sriv/consumeless/auth"
	"github.com/sidhant-sriv/consumeless/db"
	"github.com/sidhant-sriv/consumeless/geocode"
	"github.com/sidhant-sriv/consumeless/models"
)

type RegisterInput struct {
	Username string `form:"username" json:"username" validate:"required,max=64"`
	Email    string `form:"email" json:"email" validate:"required,email,max=120"`
	Password string `form:"password" json:"password" validate:"required,max=72"`
	Postcode string `form:"postcode" json:"postcode" validate:"omitempty,max=10"`
}

type UserService struct {
	db             *gorm.DB
	tokens         *auth.Issuer
	geocoder       geocode.Provider
	geocodeTimeout time.Duration
	logger         *slog.Logger
	now            func() time.Time
}

func NewUserService(conn *gorm.DB, tokens *auth.Issuer, geocoder geocode.Provider, geocodeTimeout time.Duration, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		db:             conn,
		tokens:         tokens,
		geocoder:       geocoder,
		geocodeTimeout: geocodeTimeout,
		logger:         logger,
		now:            time.Now,
	}
}

// Register creates a user and returns it with a fresh token. The postcode is
// geocoded on the way in; a failed lookup leaves the coordinates empty.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Postcode = strings.ToUpper(strings.TrimSpace(in.Postcode))
	if err := validateStruct(in); err != nil {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		// max=72 counts characters, bcrypt counts bytes
		return nil, "", newError(ErrBadRequest, "Field password must be at most 72 bytes")
	}
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashed),
		CreatedAt:    s.now().UTC(),
		Postcode:     in.Postcode,
	}

	if in.Postcode != "" {
		if coords, err := s.lookup(ctx, in.Postcode); err != nil {
			s.logger.Warn("Geocoding failed, storing user without coordinates",
				"postcode", in.Postcode,
				"error", err,
			)
		} else {
			user.Latitude = &coords.Latitude
			user.Longitude = &coords.Longitude
		}
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if db.IsDuplicate(err) {
			return nil, "", newError(ErrConflict, "User exists")
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *UserService) lookup(ctx context.Context, postcode string) (geocode.Coordinates, error) {
	if s.geocodeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.geocodeTimeout)
		defer cancel()
	}
	return s.geocoder.Lookup(ctx, postcode)
}

// Login checks username and password and returns the user with a fresh token.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	if username == "" || password == "" {
		return nil, "", newError(ErrBadRequest, "Insufficient information")
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", newError(ErrBadRequest, "User does not exist")
		}
		return nil, "", fmt.Errorf("find user %q: %w", username, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", newError(ErrBadRequest, "Invalid password")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &user, nil
}
