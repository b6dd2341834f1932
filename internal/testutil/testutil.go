// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/fitcoach/fitcoach-api/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const WebhookSecret = "whsec_test_secret"

// NewDB returns a migrated in-memory sqlite database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SignPayload builds a Stripe-Signature header for payload.
func SignPayload(secret string, payload []byte, ts time.Time) string {
	unix := ts.Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.", unix)))
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", unix, hex.EncodeToString(mac.Sum(nil)))
}

// SeedCatalog inserts prog-1 (49.99 USD), prog-2 (120 USD) and coach-1 (300 USD).
func SeedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()

	require.NoError(t, db.Create(&[]model.Program{
		{ID: "prog-1", Name: "Strength Foundations", Price: decimal.RequireFromString("49.99"), Currency: "USD", DurationWeeks: 8},
		{ID: "prog-2", Name: "Marathon Build", Price: decimal.RequireFromString("120"), Currency: "USD", DurationWeeks: 16},
	}).Error)
	require.NoError(t, db.Create(&model.CoachingPackage{
		ID: "coach-1", Name: "1:1 Coaching Monthly", Price: decimal.RequireFromString("300"), Currency: "USD", Sessions: 4,
	}).Error)
}
