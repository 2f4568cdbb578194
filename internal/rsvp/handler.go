package rsvp

import (
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"strconv"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/gin-gonic/gin"

	"github.com/velvetsocial/community-backend/internal/profile"
	"github.com/velvetsocial/community-backend/middleware"
)

type Handler struct {
	service  Service
	profiles profile.Service
}

func NewHandler(s Service, profiles profile.Service) *Handler {
	return &Handler{service: s, profiles: profiles}
}

func httpStatusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyRedeemed), errors.Is(err, ErrCapacityExceeded):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type submitRequest struct {
	Category string `json:"category" binding:"required"`
}

// Submit - POST /events/:slug/rsvp
func (h *Handler) Submit(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrUnauthenticated.Error()})
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	// trust badges are copied from the profile at submission time
	var badges []string
	if p, err := h.profiles.GetOrCreate(user.ID, user.FullName); err == nil {
		badges = p.Badges()
	}

	result, err := h.service.Submit(c.Param("slug"), req.Category, Requester{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.FullName,
		TrustBadges: badges,
	}, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(httpStatusFor(err), gin.H{"error": err.Error()})
		return
	}

	code := http.StatusOK
	if result.Created {
		code = http.StatusCreated
	}
	c.JSON(code, result)
}

// ListForEvent - GET /events/:slug/rsvps (host/admin)
func (h *Handler) ListForEvent(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrUnauthenticated.Error()})
		return
	}

	recs, err := h.service.ListForEvent(c.Param("slug"), Reviewer{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.Role.RoleName == "admin",
	})
	if err != nil {
		c.JSON(httpStatusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rsvps": recs, "capacity": Count(recs)})
}

// Capacity - GET /events/:slug/capacity
func (h *Handler) Capacity(c *gin.Context) {
	snap, err := h.service.CapacityFor(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute capacity"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus - PATCH /rsvps/:id/status (host/admin)
func (h *Handler) UpdateStatus(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrUnauthenticated.Error()})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid RSVP id"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	rec, err := h.service.UpdateStatus(uint(id), req.Status, Reviewer{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.Role.RoleName == "admin",
	}, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(httpStatusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rec)
}

// MyRSVPs - GET /rsvps/mine
func (h *Handler) MyRSVPs(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrUnauthenticated.Error()})
		return
	}

	recs, err := h.service.MyRSVPs(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load RSVPs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rsvps": recs})
}

type checkinRequest struct {
	Token     string `json:"token"`
	EventSlug string `json:"eventSlug"`
}

// Checkin - POST /events/checkin
// Body {token, eventSlug}, response {ok, message}.
func (h *Handler) Checkin(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": ErrUnauthenticated.Error()})
		return
	}

	var req checkinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "invalid input"})
		return
	}

	rec, err := h.service.Checkin(req.Token, req.EventSlug, Requester{
		UserID: user.ID,
		Email:  user.Email,
	}, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(httpStatusFor(err), gin.H{"ok": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"message": "checked in",
		"rsvp": gin.H{
			"display_name": rec.DisplayName,
			"category":     rec.Category,
			"status":       rec.Status,
		},
	})
}

// CheckinPass - GET /rsvps/:id/pass.png
// Renders the caller's check-in token as a QR image for door scanning.
func (h *Handler) CheckinPass(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrUnauthenticated.Error()})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid RSVP id"})
		return
	}

	rec, err := h.service.GetOwned(uint(id), user.ID)
	if err != nil {
		c.JSON(httpStatusFor(err), gin.H{"error": err.Error()})
		return
	}

	payload, _ := json.Marshal(checkinRequest{Token: rec.CheckinToken, EventSlug: rec.EventSlug})
	code, err := qr.Encode(string(payload), qr.M, qr.Auto)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render pass"})
		return
	}
	code, err = barcode.Scale(code, 300, 300)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render pass"})
		return
	}

	c.Header("Content-Type", "image/png")
	_ = png.Encode(c.Writer, code)
}
