package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/passport/internal/token"
)

func TestAuthenticate(t *testing.T) {
	codec := token.NewCodec([]byte("access"), []byte("refresh"), 15*time.Minute, 30*24*time.Hour, nil)
	userID := uuid.New()
	sessionID := uuid.New()

	var gotUserID, gotSessionID uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = r.Context().Value(UserIDKey).(uuid.UUID)
		gotSessionID, _ = r.Context().Value(SessionIDKey).(uuid.UUID)
		w.WriteHeader(http.StatusOK)
	})
	protected := Authenticate(codec)(next)

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/user", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/user", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		refresh, err := codec.SignRefresh(sessionID)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/user", nil)
		req.Header.Set("Authorization", "Bearer "+refresh)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bearer header", func(t *testing.T) {
		access, err := codec.SignAccess(userID, sessionID)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/user", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, gotUserID)
		assert.Equal(t, sessionID, gotSessionID)
	})

	t.Run("access cookie", func(t *testing.T) {
		access, err := codec.SignAccess(userID, sessionID)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/user", nil)
		req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: access})
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
