// Package handler exposes the /security/devices HTTP surface. All three
// routes authenticate with the refreshToken cookie, matching the refresh
// endpoints: device management is a session-level concern.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blogger-platform/internal/auth/service"
	"blogger-platform/internal/results"
)

const refreshCookieName = "refreshToken"

type Handler struct {
	auth *service.AuthService
}

func New(auth *service.AuthService) *Handler {
	return &Handler{auth: auth}
}

// Register mounts the /security/devices routes.
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/security")
	g.GET("/devices", h.list)
	g.DELETE("/devices", h.terminateOthers)
	g.DELETE("/devices/:id", h.terminateOne)
}

func (h *Handler) list(c *gin.Context) {
	token, ok := refreshCookie(c)
	if !ok {
		return
	}
	devices, res := h.auth.ListDevices(c.Request.Context(), token)
	if res.Failed() {
		fail(c, res)
		return
	}
	c.JSON(http.StatusOK, devices)
}

func (h *Handler) terminateOthers(c *gin.Context) {
	token, ok := refreshCookie(c)
	if !ok {
		return
	}
	if res := h.auth.TerminateOtherDevices(c.Request.Context(), token); res.Failed() {
		fail(c, res)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) terminateOne(c *gin.Context) {
	token, ok := refreshCookie(c)
	if !ok {
		return
	}
	if res := h.auth.TerminateDevice(c.Request.Context(), token, c.Param("id")); res.Failed() {
		fail(c, res)
		return
	}
	c.Status(http.StatusNoContent)
}

func refreshCookie(c *gin.Context) (string, bool) {
	token, err := c.Cookie(refreshCookieName)
	if err != nil || token == "" {
		fail(c, results.Unauthorizedf("refresh token is missing or invalid"))
		return "", false
	}
	return token, true
}

func fail(c *gin.Context, res results.Result) {
	c.AbortWithStatusJSON(res.HTTPStatus(), res.Body())
}
