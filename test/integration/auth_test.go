package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, app *TestApp, path string, body any, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, app.Server.URL+path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, app *TestApp, path string, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, app.Server.URL+path, nil)
	require.NoError(t, err)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func responseCookie(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == name && c.Value != "" {
			return c
		}
	}
	return nil
}

func decodeUser(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var user map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	return user
}

func TestRegisterLoginRefreshFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupApp(t)
	defer app.Teardown(t)

	// 1. Register
	resp := postJSON(t, app, "/auth/register", map[string]string{
		"email":            "a@x.com",
		"password":         "secret1",
		"confirm_password": "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	user := decodeUser(t, resp)
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, false, user["verified"])
	assert.NotContains(t, user, "password_hash")

	access := responseCookie(t, resp, "access_token")
	refresh := responseCookie(t, resp, "refresh_token")
	require.NotNil(t, access)
	require.NotNil(t, refresh)

	// The verification email went out.
	require.Len(t, app.Sender.Sent, 1)
	assert.Equal(t, "a@x.com", app.Sender.Sent[0].To)

	// 2. Login with a wrong password
	resp = postJSON(t, app, "/auth/login", map[string]string{
		"email":    "a@x.com",
		"password": "wrong",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// 3. Login with the correct password opens a second session
	resp = postJSON(t, app, "/auth/login", map[string]string{
		"email":    "a@x.com",
		"password": "secret1",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sessionCount int
	require.NoError(t, app.DB.QueryRow("SELECT count(*) FROM sessions").Scan(&sessionCount))
	assert.Equal(t, 2, sessionCount)

	// 4. Refresh with the first session's cookie: fresh session, so a
	// new access token but no rotated refresh token.
	resp = get(t, app, "/auth/refresh", refresh)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotNil(t, responseCookie(t, resp, "access_token"))
	assert.Nil(t, responseCookie(t, resp, "refresh_token"))

	// 5. Refresh without a cookie
	resp = get(t, app, "/auth/refresh")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDuplicateRegistration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupApp(t)
	defer app.Teardown(t)

	resp := postJSON(t, app, "/auth/register", map[string]string{
		"email":            "a@x.com",
		"password":         "secret1",
		"confirm_password": "secret1",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/auth/register", map[string]string{
		"email":            "A@X.COM", // uniqueness is case-insensitive
		"password":         "secret2",
		"confirm_password": "secret2",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestConcurrentDuplicateRegistration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupApp(t)
	defer app.Teardown(t)

	// Exactly one success and one conflict regardless of interleaving:
	// the unique index decides, not the service-level exists check.
	const attempts = 4
	statuses := make([]int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := postJSON(t, app, "/auth/register", map[string]string{
				"email":            "race@x.com",
				"password":         "secret1",
				"confirm_password": "secret1",
			})
			resp.Body.Close()
			statuses[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	created := 0
	for _, status := range statuses {
		if status == http.StatusCreated {
			created++
		} else {
			assert.Equal(t, http.StatusConflict, status)
		}
	}
	assert.Equal(t, 1, created)

	var userCount int
	require.NoError(t, app.DB.QueryRow("SELECT count(*) FROM users").Scan(&userCount))
	assert.Equal(t, 1, userCount)
}

func TestEmailVerification(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupApp(t)
	defer app.Teardown(t)

	resp := postJSON(t, app, "/auth/register", map[string]string{
		"email":            "a@x.com",
		"password":         "secret1",
		"confirm_password": "secret1",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var codeID string
	require.NoError(t, app.DB.QueryRow(
		"SELECT id FROM verification_codes WHERE kind = 'email_verification'").Scan(&codeID))

	resp = get(t, app, "/auth/email/verify/"+codeID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := decodeUser(t, resp)
	assert.Equal(t, true, user["verified"])

	// The code is single use.
	resp = get(t, app, "/auth/email/verify/"+codeID)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPasswordResetFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupApp(t)
	defer app.Teardown(t)

	resp := postJSON(t, app, "/auth/register", map[string]string{
		"email":            "a@x.com",
		"password":         "secret1",
		"confirm_password": "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	refresh := responseCookie(t, resp, "refresh_token")
	require.NotNil(t, refresh)

	// Unknown emails are rejected on the reset path.
	resp = postJSON(t, app, "/auth/password/forgot", map[string]string{"email": "nobody@x.com"})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// First request passes, second within the window is gated.
	resp = postJSON(t, app, "/auth/password/forgot", map[string]string{"email": "a@x.com"})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, app, "/auth/password/forgot", map[string]string{"email": "a@x.com"})
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	var codeID string
	require.NoError(t, app.DB.QueryRow(
		"SELECT id FROM verification_codes WHERE kind = 'password_reset'").Scan(&codeID))

	resp = postJSON(t, app, "/auth/password/reset", map[string]string{
		"password":          "newsecret",
		"verification_code": codeID,
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Every pre-reset session is closed: the old refresh cookie dies.
	resp = get(t, app, "/auth/refresh", refresh)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// The new password works, the old one does not.
	resp = postJSON(t, app, "/auth/login", map[string]string{"email": "a@x.com", "password": "secret1"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = postJSON(t, app, "/auth/login", map[string]string{"email": "a@x.com", "password": "newsecret"})
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
