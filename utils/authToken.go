package utils

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/o1egl/paseto"
)

const (
	AccessTokenExpiry  = 1 * time.Hour
	RefreshTokenExpiry = 7 * 24 * time.Hour
)

// TokenClaims is the payload carried inside a PASETO token.
type TokenClaims struct {
	UserID string    `json:"userId"`
	Role   string    `json:"role"`
	Expiry time.Time `json:"expiry"`
}

var (
	symmetricKeyOnce sync.Once
	symmetricKey     []byte
)

// GetSymmetricKey loads the PASETO v2 local key from the environment.
// The key must be exactly 32 bytes.
func GetSymmetricKey() []byte {
	symmetricKeyOnce.Do(func() {
		key := os.Getenv("SYMMETRIC_KEY")
		if len(key) != 32 {
			log.Fatalf("SYMMETRIC_KEY must be 32 bytes long. Current length: %d", len(key))
		}
		symmetricKey = []byte(key)
	})
	return symmetricKey
}

// GenerateTokens issues an access token and a refresh token for the user.
func GenerateTokens(userID, role string) (accessToken, refreshToken string, err error) {
	accessToken, err = encryptClaims(userID, role, AccessTokenExpiry)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = encryptClaims(userID, role, RefreshTokenExpiry)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// GenerateAccessToken issues a fresh access token only.
func GenerateAccessToken(userID, role string) (string, error) {
	return encryptClaims(userID, role, AccessTokenExpiry)
}

func encryptClaims(userID, role string, expiry time.Duration) (string, error) {
	claims := TokenClaims{
		UserID: userID,
		Role:   role,
		Expiry: time.Now().Add(expiry),
	}
	token, err := paseto.NewV2().Encrypt(GetSymmetricKey(), claims, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// ValidateToken decrypts the token, checks expiry, and when requiredRoles
// is non-empty requires the token's role to be one of them.
func ValidateToken(tokenString string, requiredRoles ...string) (*TokenClaims, error) {
	var claims TokenClaims
	if err := paseto.NewV2().Decrypt(tokenString, GetSymmetricKey(), &claims, nil); err != nil {
		return nil, fmt.Errorf("failed to decrypt token: %w", err)
	}

	if time.Now().After(claims.Expiry) {
		return nil, errors.New("token expired")
	}

	if len(requiredRoles) == 0 {
		return &claims, nil
	}
	for _, role := range requiredRoles {
		if claims.Role == role {
			return &claims, nil
		}
	}
	return nil, errors.New("insufficient permissions")
}
