// Package handler exposes the /auth HTTP surface. The refresh token travels
// as an HTTP-only cookie; the access token travels in the JSON body and is
// presented back as a Bearer header.
package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"blogger-platform/internal/auth/service"
	"blogger-platform/internal/results"
	"blogger-platform/internal/server/middleware"
)

const refreshCookieName = "refreshToken"

type Handler struct {
	auth             *service.AuthService
	refreshMaxAgeSec int
}

// New returns the /auth handler. refreshMaxAgeSec bounds the refresh cookie
// lifetime and should match the refresh-token TTL.
func New(auth *service.AuthService, refreshMaxAgeSec int) *Handler {
	return &Handler{auth: auth, refreshMaxAgeSec: refreshMaxAgeSec}
}

// Register mounts the /auth routes. authRequired guards /auth/me.
func (h *Handler) Register(r gin.IRouter, authRequired gin.HandlerFunc) {
	g := r.Group("/auth")
	g.POST("/registration", h.registration)
	g.POST("/registration-confirmation", h.registrationConfirmation)
	g.POST("/registration-email-resending", h.registrationEmailResending)
	g.POST("/login", h.login)
	g.POST("/refresh-token", h.refreshToken)
	g.POST("/logout", h.logout)
	g.POST("/password-recovery", h.passwordRecovery)
	g.POST("/new-password", h.newPassword)
	g.GET("/me", authRequired, h.me)
}

type registrationRequest struct {
	Login    string `json:"login" binding:"required,min=3,max=10"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=20"`
}

func (h *Handler) registration(c *gin.Context) {
	var req registrationRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, res := h.auth.Register(c.Request.Context(), req.Login, req.Email, req.Password); res.Failed() {
		fail(c, res)
		return
	}
	c.Status(http.StatusNoContent)
}

type confirmationRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *Handler) registrationConfirmation(c *gin.Context) {
	var req confirmationRequest
	if !bindJSON(c, &req) {
		return
	}
	if res := h.auth.ConfirmRegistration(c.Request.Context(), req.Code); res.Failed() {
		fail(c, res)
		return
	}
	c.Status(http.StatusNoContent)
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *Handler) registrationEmailResending(c *gin.Context) {
	var req emailRequest
	if !bindJSON(c, &req) {
		return
	}
	if res := h.auth.ResendConfirmation(c.Request.Context(), req.Email); res.Failed() {
		fail(c, res)
		return
	}
	c.Status(http.StatusNoContent)
}

type loginRequest struct {
	LoginOrEmail string `json:"loginOrEmail" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	pair, res := h.auth.Login(c.Request.Context(), req.LoginOrEmail, req.Password, c.Request.UserAgent(), c.ClientIP())
	if res.Failed() {
		fail(c, res)
		return
	}
	h.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusOK, gin.H{"accessToken": pair.AccessToken})
}

func (h *Handler) refreshToken(c *gin.Context) {
	token, ok := refreshCookie(c)
	if !ok {
		return
	}
	pair, res := h.auth.Refresh(c.Request.Context(), token, c.ClientIP())
	if res.Failed() {
		fail(c, res)
		return
	}
	h.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusOK, gin.H{"accessToken": pair.AccessToken})
}

func (h *Handler) logout(c *gin.Context) {
	token, ok := refreshCookie(c)
	if !ok {
		return
	}
	if res := h.auth.Logout(c.Request.Context(), token); res.Failed() {
		fail(c, res)
		return
	}
	h.clearRefreshCookie(c)
	c.Status(http.StatusNoContent)
}

func (h *Handler) passwordRecovery(c *gin.Context) {
	var req emailRequest
	if !bindJSON(c, &req) {
		return
	}
	if res := h.auth.PasswordRecovery(c.Request.Context(), req.Email); res.Failed() {
		fail(c, res)
		return
	}
	c.Status(http.StatusNoContent)
}

type newPasswordRequest struct {
	NewPassword  string `json:"newPassword" binding:"required,min=6,max=20"`
	RecoveryCode string `json:"recoveryCode" binding:"required"`
}

func (h *Handler) newPassword(c *gin.Context) {
	var req newPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if res := h.auth.NewPassword(c.Request.Context(), req.RecoveryCode, req.NewPassword); res.Failed() {
		fail(c, res)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) me(c *gin.Context) {
	view, res := h.auth.CurrentUser(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if res.Failed() {
		fail(c, res)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) setRefreshCookie(c *gin.Context, token string) {
	c.SetCookie(refreshCookieName, token, h.refreshMaxAgeSec, "/", "", true, true)
}

func (h *Handler) clearRefreshCookie(c *gin.Context) {
	c.SetCookie(refreshCookieName, "", -1, "/", "", true, true)
}

// refreshCookie pulls the refresh token cookie, answering 401 when absent.
func refreshCookie(c *gin.Context) (string, bool) {
	token, err := c.Cookie(refreshCookieName)
	if err != nil || token == "" {
		fail(c, results.Unauthorizedf("refresh token is missing or invalid"))
		return "", false
	}
	return token, true
}

// bindJSON revalidates the request body at the boundary. Validation failures
// answer 400 with one errorsMessages entry per offending field; malformed
// JSON gets a single entry with no field.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fieldErrs := make([]results.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fieldErrs = append(fieldErrs, results.FieldError{
				Message: "invalid value",
				Field:   jsonFieldName(fe.Field()),
			})
		}
		fail(c, results.Result{Code: results.BadRequest, Errors: fieldErrs})
		return false
	}
	fail(c, results.BadRequestf("", "invalid request body"))
	return false
}

// jsonFieldName turns a struct field name into its json counterpart. The
// request structs keep their json tags aligned with the field names modulo
// casing, so lowercasing the first rune is enough.
func jsonFieldName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func fail(c *gin.Context, res results.Result) {
	c.AbortWithStatusJSON(res.HTTPStatus(), res.Body())
}
