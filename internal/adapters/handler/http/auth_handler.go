package http

import (
	"encoding/json"
	"net/http"
	"net/mail"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/passport/internal/core/ports"
)

type AuthHandler struct {
	service ports.AuthService
	cookies *CookieWriter
}

func NewAuthHandler(service ports.AuthService, cookies *CookieWriter) *AuthHandler {
	return &AuthHandler{
		service: service,
		cookies: cookies,
	}
}

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password         string `json:"password"`
	VerificationCode string `json:"verification_code"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register godoc
// @Summary      Registers a new account
// @Description  Creates the user, emails a verification link and opens a first session. The returned cookies carry the token pair.
// @Tags         auth
// @Accept       json
// @Success      201
// @Failure      400
// @Failure      409
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg := validateEmail(req.Email); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validatePassword(req.Password); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if req.Password != req.ConfirmPassword {
		writeError(w, http.StatusBadRequest, "passwords do not match")
		return
	}

	result, err := h.service.CreateAccount(r.Context(), ports.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.cookies.setAuthCookies(w, result.AccessToken, result.RefreshToken)
	writeJSON(w, http.StatusCreated, result.User)
}

// Login godoc
// @Summary      Logs a user in
// @Description  Opens a new session for the account; previous sessions stay valid.
// @Tags         auth
// @Accept       json
// @Success      200
// @Failure      401
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.Login(r.Context(), ports.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.cookies.setAuthCookies(w, result.AccessToken, result.RefreshToken)
	writeJSON(w, http.StatusOK, result.User)
}

// Refresh godoc
// @Summary      Refreshes the access token
// @Description  Issues a new access token cookie from the refresh token cookie. Rotates the refresh token when the session was renewed.
// @Tags         auth
// @Success      200
// @Failure      401
// @Router       /auth/refresh [get]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "missing refresh token")
		return
	}

	result, err := h.service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		h.cookies.expireAuthCookies(w)
		writeServiceError(w, err)
		return
	}

	// Only re-set the refresh cookie when the token was rotated.
	if result.RefreshToken != "" && result.RefreshToken != cookie.Value {
		h.cookies.setAuthCookies(w, result.AccessToken, result.RefreshToken)
	} else {
		h.cookies.setAccessCookie(w, result.AccessToken)
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "access token refreshed"})
}

// Logout godoc
// @Summary      Logs the authenticated user out
// @Description  Closes the current session and clears the auth cookies.
// @Tags         auth
// @Success      200
// @Router       /auth/logout [get]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if tokenString := bearerToken(r); tokenString != "" {
		if err := h.service.Logout(r.Context(), tokenString); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	h.cookies.expireAuthCookies(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "logout successful"})
}

// VerifyEmail godoc
// @Summary      Verifies an email address
// @Description  Consumes the emailed verification code; a code works exactly once.
// @Tags         auth
// @Success      200
// @Failure      404
// @Router       /auth/email/verify/{code} [get]
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing verification code")
		return
	}

	user, err := h.service.VerifyEmail(r.Context(), code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// ForgotPassword godoc
// @Summary      Requests a password reset email
// @Description  Sends a reset link; at most one pending request per account per window.
// @Tags         auth
// @Accept       json
// @Success      200
// @Failure      404
// @Failure      429
// @Router       /auth/password/forgot [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateEmail(req.Email); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if _, err := h.service.SendPasswordResetEmail(r.Context(), req.Email); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "password reset email sent"})
}

// ResetPassword godoc
// @Summary      Resets the account password
// @Description  Consumes the reset code, replaces the password and closes every session for the account.
// @Tags         auth
// @Accept       json
// @Success      200
// @Failure      404
// @Router       /auth/password/reset [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validatePassword(req.Password); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if _, err := h.service.ResetPassword(r.Context(), req.VerificationCode, req.Password); err != nil {
		writeServiceError(w, err)
		return
	}

	// Every session is gone; any cookies this client holds are dead.
	h.cookies.expireAuthCookies(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "password reset successful"})
}

func validateEmail(email string) string {
	if len(email) < 5 || len(email) > 255 {
		return "email must be between 5 and 255 characters"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "invalid email address"
	}
	return ""
}

func validatePassword(password string) string {
	if len(password) < 6 || len(password) > 255 {
		return "password must be between 6 and 255 characters"
	}
	return ""
}
