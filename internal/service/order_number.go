package service

import (
	"crypto/rand"
	"encoding/base32"
	"time"
)

var orderNumberEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewOrderNumber returns FC-YYMMDD-XXXXXX. The random suffix carries 30 bits;
// the unique index on orders.order_number catches the rare collision.
func NewOrderNumber(now time.Time) string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	suffix := orderNumberEncoding.EncodeToString(b[:])[:6]
	return "FC-" + now.UTC().Format("060102") + "-" + suffix
}
