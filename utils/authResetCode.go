package utils

import (
	"CarePoint/cache"
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const resetCodeTTL = 15 * time.Minute

func resetCodeKey(email string) string {
	return "reset_code:" + email
}

// GenerateResetCode returns a random 6-digit code.
func GenerateResetCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		return fmt.Sprintf("%06d", time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("%06d", n.Int64())
}

// SetResetCode stores the reset code for an email with a 15 minute expiry.
func SetResetCode(ctx context.Context, email, code string) error {
	c, err := cache.NewCache()
	if err != nil {
		return err
	}
	return c.Set(ctx, resetCodeKey(email), code, resetCodeTTL)
}

// GetResetCode returns the stored reset code, or nil when none exists.
func GetResetCode(ctx context.Context, email string) (*string, error) {
	c, err := cache.NewCache()
	if err != nil {
		return nil, err
	}
	code, err := c.Get(ctx, resetCodeKey(email))
	if err != nil {
		return nil, err
	}
	if code == "" {
		return nil, nil
	}
	return &code, nil
}

// DeleteResetCode removes the reset code once it has been consumed.
func DeleteResetCode(ctx context.Context, email string) error {
	c, err := cache.NewCache()
	if err != nil {
		return err
	}
	return c.Delete(ctx, resetCodeKey(email))
}
