package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	accessTokenTTL  = time.Hour
	refreshTokenTTL = time.Hour * 24 * 30
)

var jwtSecret string

func InitJWTSecret() error {
	jwtSecret = os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	return nil
}

// GenerateTokenPair mints the access/refresh pair returned by the token and
// firebase-login endpoints.
func GenerateTokenPair(userID uint, username string) (string, string, error) {
	access, err := signToken(userID, username, TokenTypeAccess, accessTokenTTL)

	if err != nil {
		return "", "", err
	}

	refresh, err := signToken(userID, username, TokenTypeRefresh, refreshTokenTTL)

	if err != nil {
		return "", "", err
	}

	return access, refresh, nil
}

func GenerateAccessToken(userID uint, username string) (string, error) {
	return signToken(userID, username, TokenTypeAccess, accessTokenTTL)
}

func signToken(userID uint, username string, tokenType string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"type":     tokenType,
		"exp":      time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// VerifyJWT validates a locally-issued token and enforces its type claim, so a
// refresh token can never be replayed as an access token or vice versa.
func VerifyJWT(tokenString string, wantType string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok || claims["type"] != wantType {
		return nil, fmt.Errorf("Invalid token type")
	}

	return token, nil
}
