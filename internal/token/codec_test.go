package token

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(now func() time.Time) *Codec {
	return NewCodec(
		[]byte("access-secret"),
		[]byte("refresh-secret"),
		15*time.Minute,
		30*24*time.Hour,
		now,
	)
}

func TestSignAndVerifyAccess(t *testing.T) {
	codec := newTestCodec(nil)
	userID := uuid.New()
	sessionID := uuid.New()

	signed, err := codec.SignAccess(userID, sessionID)
	require.NoError(t, err)

	claims, err := codec.VerifyAccess(signed)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, sessionID.String(), claims.SessionID)
}

func TestSignAndVerifyRefresh(t *testing.T) {
	codec := newTestCodec(nil)
	sessionID := uuid.New()

	signed, err := codec.SignRefresh(sessionID)
	require.NoError(t, err)

	claims, err := codec.VerifyRefresh(signed)
	require.NoError(t, err)
	assert.Equal(t, sessionID.String(), claims.SessionID)
	assert.Empty(t, claims.UserID)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	codec := newTestCodec(nil)

	signed, err := codec.SignAccess(uuid.New(), uuid.New())
	require.NoError(t, err)

	parts := strings.Split(signed, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]

	_, err = codec.VerifyAccess(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	codec := newTestCodec(nil)

	for _, tokenString := range []string{"", "not-a-token", "a.b", "a.b.c"} {
		_, err := codec.VerifyAccess(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tokenString)
	}
}

func TestRefreshTokenCannotBeUsedAsAccessToken(t *testing.T) {
	codec := newTestCodec(nil)

	refresh, err := codec.SignRefresh(uuid.New())
	require.NoError(t, err)

	_, err = codec.VerifyAccess(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessTokenCannotBeUsedAsRefreshToken(t *testing.T) {
	codec := newTestCodec(nil)

	access, err := codec.SignAccess(uuid.New(), uuid.New())
	require.NoError(t, err)

	_, err = codec.VerifyRefresh(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	current := time.Now()
	codec := newTestCodec(func() time.Time { return current })

	signed, err := codec.SignAccess(uuid.New(), uuid.New())
	require.NoError(t, err)

	current = current.Add(16 * time.Minute)

	_, err = codec.VerifyAccess(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
