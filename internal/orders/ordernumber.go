package orders

import (
	"crypto/rand"
	"fmt"
)

const (
	orderNumberPrefix   = "ORD-"
	orderNumberLength   = 9
	orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// maxOrderNumberAttempts bounds the retries when a generated order number
// collides with an existing row. The keyspace is 36^9 so a second collision
// in a row means something is wrong with the random source.
const maxOrderNumberAttempts = 5

// newOrderNumber returns a human-readable order number like ORD-K3F9TQ2ZD.
// Uniqueness is enforced by the database index, not here.
func newOrderNumber() (string, error) {
	buf := make([]byte, orderNumberLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate order number: %w", err)
	}
	for i, b := range buf {
		buf[i] = orderNumberAlphabet[int(b)%len(orderNumberAlphabet)]
	}
	return orderNumberPrefix + string(buf), nil
}
