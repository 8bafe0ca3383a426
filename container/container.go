package container

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/sidhant-sriv/consumeless/auth"
	"github.com/sidhant-sriv/consumeless/geocode"
	"github.com/sidhant-sriv/consumeless/services"
)

// Container holds all application dependencies. It is built once at startup
// and handed to the router.
type Container struct {
	Logger *slog.Logger
	DB     *gorm.DB
	Tokens *auth.Issuer

	UserService    *services.UserService
	ItemService    *services.ItemService
	BookingService *services.BookingService

	CORSAllowOrigins []string
}

type Options struct {
	JWTSecret        string
	Geocoder         geocode.Provider
	GeocodeTimeout   time.Duration
	CORSAllowOrigins []string
}

// NewContainer creates a new dependency injection container
func NewContainer(logger *slog.Logger, db *gorm.DB, opts Options) *Container {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Geocoder == nil {
		opts.Geocoder = geocode.NewFixed()
	}

	tokens := auth.NewIssuer(opts.JWTSecret)

	return &Container{
		Logger:           logger,
		DB:               db,
		Tokens:           tokens,
		UserService:      services.NewUserService(db, tokens, opts.Geocoder, opts.GeocodeTimeout, logger),
		ItemService:      services.NewItemService(db),
		BookingService:   services.NewBookingService(db),
		CORSAllowOrigins: opts.CORSAllowOrigins,
	}
}
