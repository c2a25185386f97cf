package apply

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mangapanel/pkg/models"
)

type Handler struct {
	Notifier *Notifier
}

func NewHandler(n *Notifier) *Handler {
	return &Handler{Notifier: n}
}

// RegisterRoutes mounts the public submission endpoint. Applications come
// from anonymous visitors, so no auth middleware here.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/application-submit", h.submit)
}

func (h *Handler) submit(c *gin.Context) {
	var app models.Application
	if err := c.ShouldBindJSON(&app); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	app.Name = strings.TrimSpace(app.Name)
	app.Email = strings.TrimSpace(app.Email)
	app.Nickname = strings.TrimSpace(app.Nickname)

	if app.Name == "" || app.Email == "" || app.Nickname == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ad, e-posta ve takma ad alanları zorunludur"})
		return
	}
	if !strings.Contains(app.Email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "geçersiz e-posta adresi"})
		return
	}

	if err := h.Notifier.Notify(c.Request.Context(), app); err != nil {
		// missing webhook config and delivery failure both surface as a
		// generic 500; the detail stays in the log
		log.Printf("application delivery failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "başvuru iletilemedi, lütfen tekrar deneyin"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "başvurunuz alındı"})
}
