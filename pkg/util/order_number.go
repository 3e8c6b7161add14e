package util

import (
	"fmt"
	"time"

	nanoid "github.com/jaevor/go-nanoid"
)

const (
	orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	orderNumberSuffix   = 4

	// go-nanoid sizes its random buffer as (length/5)*8 bytes, which is
	// empty below 5 characters, so draw longer ids and truncate.
	orderNumberDrawLength = 8
)

// OrderNumberGenerator returns numbers of the form ORD-YYYYMMDD-XXXX.
type OrderNumberGenerator func(now time.Time) string

// NewOrderNumberGenerator builds a generator with a 4 character suffix
// drawn from A-Z0-9.
func NewOrderNumberGenerator() (OrderNumberGenerator, error) {
	draw, err := nanoid.CustomASCII(orderNumberAlphabet, orderNumberDrawLength)
	if err != nil {
		return nil, fmt.Errorf("failed to build order number generator: %w", err)
	}

	return func(now time.Time) string {
		return "ORD-" + now.Format("20060102") + "-" + draw()[:orderNumberSuffix]
	}, nil
}
