package routes

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sidhant-sriv/consumeless/container"
	"github.com/sidhant-sriv/consumeless/middleware"
	"github.com/sidhant-sriv/consumeless/models"
	"github.com/sidhant-sriv/consumeless/services"
)

// BookingRoutes sets up the booking lifecycle routes. All of them need a
// token.
func BookingRoutes(router *gin.Engine, ctr *container.Container) {
	bookingRoutes := router.Group("/api")
	bookingRoutes.Use(middleware.AuthMiddleware(ctr.Tokens))
	{
		bookingRoutes.GET("/bookings", GetBorrowed(ctr.BookingService))
		bookingRoutes.GET("/booking/:booking_id", GetLent(ctr.BookingService))
		// the path id is ignored on create; item_id comes from the form
		bookingRoutes.POST("/booking/:booking_id", CreateBooking(ctr.BookingService))
		bookingRoutes.PATCH("/booking/:booking_id", ConfirmBooking(ctr.BookingService))
		bookingRoutes.DELETE("/booking/:booking_id", DeleteBooking(ctr.BookingService))
	}
}

// GetBorrowed lists the confirmed bookings the caller has made
func GetBorrowed(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := bookings.ListCreatedBy(c.Request.Context(), middleware.GetUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// GetLent lists bookings on the caller's items. "requests" selects the
// pending ones, any other value the confirmed ones.
func GetLent(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		confirmed := c.Param("booking_id") != "requests"
		rows, err := bookings.ListForOwner(c.Request.Context(), middleware.GetUserID(c), confirmed)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// CreateBooking requests an item for a number of days
func CreateBooking(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form struct {
			ItemID   string `form:"item_id" json:"item_id"`
			ReturnBy string `form:"return_by" json:"return_by"`
		}
		if err := c.ShouldBind(&form); err != nil {
			badRequest(c, "Invalid input")
			return
		}

		itemRaw := strings.TrimSpace(form.ItemID)
		daysRaw := strings.TrimSpace(form.ReturnBy)
		if itemRaw == "" {
			badRequest(c, "Missing field: item_id")
			return
		}
		if daysRaw == "" {
			badRequest(c, "Missing field: return_by")
			return
		}
		itemID, err := strconv.ParseUint(itemRaw, 10, 32)
		if err != nil {
			badRequest(c, "Field item_id must be a number")
			return
		}
		days, err := strconv.Atoi(daysRaw)
		if err != nil {
			badRequest(c, "Field return_by must be a whole number of days")
			return
		}

		booking, err := bookings.Create(c.Request.Context(), middleware.GetUserID(c), uint(itemID), days)
		if err != nil {
			respondError(c, err)
			return
		}

		c.Header("Location", fmt.Sprintf("/api/booking/%d", booking.ID))
		c.JSON(http.StatusCreated, models.Date(booking.ReturnBy).String())
	}
}

// ConfirmBooking accepts a pending booking on one of the caller's items
func ConfirmBooking(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "booking_id")
		if !ok {
			badRequest(c, "Invalid booking id")
			return
		}

		booking, err := bookings.Confirm(c.Request.Context(), middleware.GetUserID(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Booking %d confirmed successfully", booking.ID)})
	}
}

// DeleteBooking removes a booking the caller owns or requested
func DeleteBooking(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "booking_id")
		if !ok {
			badRequest(c, "Invalid booking id")
			return
		}

		if err := bookings.Delete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Booking deleted"})
	}
}
