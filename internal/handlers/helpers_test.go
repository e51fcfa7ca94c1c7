package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/clockwise-dev/clockwise/db"
	"github.com/clockwise-dev/clockwise/internal/auth"
	"github.com/clockwise-dev/clockwise/internal/identity"
	"github.com/clockwise-dev/clockwise/internal/models"
	"github.com/clockwise-dev/clockwise/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "pw123"

// setupRouter wires the full router against a fresh in-memory database.
func setupRouter(t *testing.T, verifier identity.TokenVerifier) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Project{},
		&models.Tag{},
		&models.TimeEntry{},
		&models.Settings{},
	))

	db.DB = gdb

	return router.NewRouter(verifier)
}

func createTestUser(t *testing.T, username string) (models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}
	require.NoError(t, db.DB.Create(&user).Error)

	access, _, err := auth.GenerateTokenPair(user.ID, user.Username)
	require.NoError(t, err)

	return user, access
}

func doJSON(r *gin.Engine, method string, path string, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}

// fakeVerifier resolves preconfigured identity tokens without a live provider.
type fakeVerifier struct {
	tokens map[string]identity.Claims
}

func (f *fakeVerifier) Verify(idToken string) (*identity.Claims, error) {
	claims, ok := f.tokens[idToken]

	if !ok {
		return nil, errors.New("identity token verification failed")
	}

	return &claims, nil
}
