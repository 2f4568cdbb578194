package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/velvetsocial/community-backend/middleware"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

// ListUsers - GET /admin/users
func (h *Handler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	users, total, err := h.service.ListUsers(UserFilter{
		Role:   c.Query("role"),
		Status: c.Query("status"),
		Limit:  limit,
		Page:   page,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "total": total, "page": page})
}

// PendingHosts - GET /admin/hosts/pending
func (h *Handler) PendingHosts(c *gin.Context) {
	hosts, err := h.service.PendingHosts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list pending hosts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"hosts": hosts})
}

// ApproveHost - POST /admin/hosts/:id/approve
func (h *Handler) ApproveHost(c *gin.Context) {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.service.ApproveHost(admin.ID, uint(id), middleware.GetIPFromContext(c)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "host approved"})
}

// RejectHost - POST /admin/hosts/:id/reject
func (h *Handler) RejectHost(c *gin.Context) {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req RejectHostRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.service.RejectHost(admin.ID, uint(id), req.Reason, middleware.GetIPFromContext(c)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "host rejected"})
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetUserStatus - PATCH /admin/users/:id/status
func (h *Handler) SetUserStatus(c *gin.Context) {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	if err := h.service.SetUserStatus(admin.ID, uint(id), req.Status, middleware.GetIPFromContext(c)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

// Stats - GET /admin/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
