// internal/auth/handlers_test.go

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meRequest(userID string) *http.Request {
	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	if userID == "" {
		return req
	}
	return req.WithContext(context.WithValue(req.Context(), "userID", userID))
}

func TestMe(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	handler := NewHandler(svc)

	registered, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.Me(rec, meRequest(registered.User.ID))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Contains(t, rec.Body.String(), `"email":"alice@example.com"`)
	// the password hash never leaves the server
	assert.NotContains(t, rec.Body.String(), "password_hash")
}

func TestMeUnauthenticated(t *testing.T) {
	svc, _ := newTestService()
	handler := NewHandler(svc)

	rec := httptest.NewRecorder()
	handler.Me(rec, meRequest(""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeUnknownUser(t *testing.T) {
	svc, _ := newTestService()
	handler := NewHandler(svc)

	rec := httptest.NewRecorder()
	handler.Me(rec, meRequest("ghost"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
