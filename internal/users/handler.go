// Package users exposes the admin user-management surface: listing
// accounts, changing roles, and deleting accounts. Everything here is
// ADMIN only and responds with profile projections, never password hashes.
package users

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mangapanel/internal/auth"
	"mangapanel/pkg/models"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

type Handler struct {
	Repo *auth.Repo
}

func NewHandler(repo *auth.Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, tokens auth.TokenService) {
	g := rg.Group("/admin/users", auth.Middleware(tokens))
	g.GET("", auth.Require(auth.OpUserRead), h.list)
	g.GET("/:id", auth.Require(auth.OpUserRead), h.get)
	g.PATCH("/:id", auth.Require(auth.OpUserUpdate), h.updateRole)
	g.DELETE("/:id", auth.Require(auth.OpUserDelete), h.delete)
}

func (h *Handler) list(c *gin.Context) {
	page := intQuery(c, "page", defaultPage)
	limit := intQuery(c, "limit", defaultLimit)
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	profiles, total, err := h.Repo.List(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "kullanıcılar listelenemedi"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      profiles,
		"total":      total,
		"page":       page,
		"limit":      limit,
		"totalPages": int(math.Ceil(float64(total) / float64(limit))),
	})
}

func (h *Handler) get(c *gin.Context) {
	u, err := h.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "kullanıcı yüklenemedi"})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "kullanıcı bulunamadı"})
		return
	}
	c.JSON(http.StatusOK, u.Profile())
}

type roleReq struct {
	Role string `json:"role"`
}

func (h *Handler) updateRole(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil || !auth.Allowed(auth.OpUserUpdate, claims.Role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "yetkiniz bulunmamaktadır"})
		return
	}

	var req roleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	// The whole role set is assignable, not just the handful the panel's
	// dropdown happens to show.
	role, ok := models.ParseRole(req.Role)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "geçersiz rol"})
		return
	}

	u, err := h.Repo.UpdateRole(c.Request.Context(), c.Param("id"), role)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "kullanıcı bulunamadı"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rol güncellenemedi"})
		return
	}

	c.JSON(http.StatusOK, u.Profile())
}

func (h *Handler) delete(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil || !auth.Allowed(auth.OpUserDelete, claims.Role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "yetkiniz bulunmamaktadır"})
		return
	}

	id := c.Param("id")
	if id == claims.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kendi hesabınızı silemezsiniz"})
		return
	}

	if err := h.Repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "kullanıcı bulunamadı"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "kullanıcı silinemedi"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "kullanıcı silindi"})
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
