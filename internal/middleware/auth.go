package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/clockwise-dev/clockwise/db"
	"github.com/clockwise-dev/clockwise/internal/auth"
	"github.com/clockwise-dev/clockwise/internal/identity"
	"github.com/clockwise-dev/clockwise/internal/models"
	"github.com/clockwise-dev/clockwise/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type AuthenticatedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthMiddleware resolves the bearer credential to a local user. The token is
// tried as a locally-issued session token first, then as a third-party
// identity token (which provisions a user record on first sight).
func AuthMiddleware(verifier identity.TokenVerifier) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		parts := strings.Fields(authHeader)

		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		tokenString := parts[1]

		user, err := resolveSessionToken(tokenString)

		if err != nil {
			user, err = resolveIdentityToken(verifier, tokenString)
		}

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid identity token"})
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		})
		ctx.Next()
	}
}

func resolveSessionToken(tokenString string) (*models.User, error) {
	token, err := auth.VerifyJWT(tokenString, auth.TokenTypeAccess)

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return nil, errors.New("invalid token claims")
	}

	userIDFloat, ok := claims["user_id"].(float64)

	if !ok {
		return nil, errors.New("invalid user ID in token claims")
	}

	var user models.User

	if err := db.DB.Where("id = ? AND is_active = ?", uint(userIDFloat), true).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func resolveIdentityToken(verifier identity.TokenVerifier, tokenString string) (*models.User, error) {
	if verifier == nil {
		return nil, errors.New("identity provider not configured")
	}

	claims, err := verifier.Verify(tokenString)

	if err != nil {
		return nil, err
	}

	user, _, err := identity.ProvisionUser(db.DB, claims.UID, claims.Email)

	return user, err
}
