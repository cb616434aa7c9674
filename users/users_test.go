package users

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/reliefhub-go/apperror"
	"github.com/user/reliefhub-go/auth"
	"github.com/user/reliefhub-go/store"
	"github.com/user/reliefhub-go/store/memstore"
)

func TestGetProfile(t *testing.T) {
	users := memstore.New().Users()
	require.NoError(t, users.Insert(context.Background(), &store.User{Name: "A", Email: "a@x.org", Password: "hash"}))
	svc := NewUserService(users)

	p, err := svc.GetProfile(context.Background(), "a@x.org")
	require.NoError(t, err)
	assert.Equal(t, &Profile{Name: "A", Email: "a@x.org"}, p)

	_, err = svc.GetProfile(context.Background(), "gone@x.org")
	assert.True(t, apperror.IsNotFound(err))
}

func TestHandleGetProfile(t *testing.T) {
	users := memstore.New().Users()
	require.NoError(t, users.Insert(context.Background(), &store.User{Name: "A", Email: "a@x.org", Password: "hash"}))
	tokens, err := auth.NewTokenIssuer("secret", time.Hour)
	require.NoError(t, err)

	h := auth.JWTMiddleware(tokens)(NewUserHandlers(NewUserService(users), zap.NewNop()).HandleGetProfile())

	serve := func(email string) *httptest.ResponseRecorder {
		token, _, err := tokens.Issue(email)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := serve("a@x.org")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"name":"A","email":"a@x.org"}}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "hash")

	rec = serve("gone@x.org")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetProfileWithoutMiddleware(t *testing.T) {
	h := NewUserHandlers(NewUserService(memstore.New().Users()), zap.NewNop()).HandleGetProfile()
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
