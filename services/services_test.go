package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sidhant-sriv/consumeless/db"
	"github.com/sidhant-sriv/consumeless/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.Open("sqlite", "file::memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })
	require.NoError(t, db.MakeMigration(conn))
	return conn
}

func clockAt(t time.Time) func() time.Time { return func() time.Time { return t } }

func insertUser(t *testing.T, conn *gorm.DB, username string, lat, lng *float64) models.User {
	t.Helper()
	u := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
		CreatedAt:    time.Now().UTC(),
		Postcode:     "E1 6AN",
		Latitude:     lat,
		Longitude:    lng,
	}
	require.NoError(t, conn.Create(&u).Error)
	return u
}

func insertItem(t *testing.T, items *ItemService, owner models.User, name, category string) models.Item {
	t.Helper()
	it, err := items.Create(context.Background(), owner.ID, ItemInput{
		Name:          name,
		Description:   name + " for lending",
		Category:      category,
		Deposit:       "10",
		OverdueCharge: "2.5",
	})
	require.NoError(t, err)
	return *it
}

func ptr(f float64) *float64 { return &f }
