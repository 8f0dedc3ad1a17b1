package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cresenventures/storefront/internal/config"
	"github.com/cresenventures/storefront/internal/domain/cart"
	"github.com/cresenventures/storefront/internal/domain/user"
)

type fakeUsers struct {
	last user.User
}

func (f *fakeUsers) FetchOrCreate(ctx context.Context, email, name, role string) (user.User, error) {
	f.last = user.User{ID: 7, Email: email, Name: name, Role: role}
	return f.last, nil
}

func (f *fakeUsers) ByID(ctx context.Context, id int64) (user.User, error) {
	return f.last, nil
}

type fakeSessions struct {
	storeErr error
	stored   int
}

func (f *fakeSessions) Store(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	f.stored++
	return nil
}

func (f *fakeSessions) IsValid(ctx context.Context, userID int64, tokenHash string) (bool, error) {
	return true, nil
}

func (f *fakeSessions) Revoke(ctx context.Context, userID int64, tokenHash string) error {
	return nil
}

type fakeCarts struct {
	items cart.Cart
}

func (f *fakeCarts) Get(ctx context.Context, email string) (cart.Cart, error) {
	return f.items, nil
}

func newTestHandler(sessions *fakeSessions) *Handler {
	return NewHandler(Dependencies{
		Cfg: config.Config{AdminEmails: []string{"admin@store.test"}},
		JWT: NewJWTManager(JWTConfig{
			Issuer:         "test",
			AccessSecret:   "access-secret",
			RefreshSecret:  "refresh-secret",
			AccessTTLMin:   5,
			RefreshTTLDays: 1,
		}),
		Users:    &fakeUsers{},
		Sessions: sessions,
		Carts:    &fakeCarts{},
		Log:      zap.NewNop(),
	})
}

func postJSON(handler gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	handler(c)
	return w
}

func TestGoogleLoginStoresRefreshSession(t *testing.T) {
	sessions := &fakeSessions{}
	h := newTestHandler(sessions)

	w := postJSON(h.GoogleLogin, `{"email":"asha@example.com","name":"Asha"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, sessions.stored)
	assert.Contains(t, w.Body.String(), "refresh_token")
}

// A refresh token that never reached the session table can never validate,
// so a failed store must fail the whole sign-in rather than hand one out.
func TestGoogleLoginFailsWhenSessionStoreFails(t *testing.T) {
	sessions := &fakeSessions{storeErr: errors.New("connection refused")}
	h := newTestHandler(sessions)

	w := postJSON(h.GoogleLogin, `{"email":"asha@example.com"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "refresh_token")
	assert.Equal(t, 0, sessions.stored)
}
