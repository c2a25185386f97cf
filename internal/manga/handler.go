package manga

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mangapanel/internal/auth"
	"mangapanel/internal/slug"
	"mangapanel/pkg/models"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100

	minReleaseYear = 1900
)

// Publisher receives admin-panel change notifications. The event feed
// implements it; a nil Publisher disables publishing.
type Publisher interface {
	Publish(event string, payload any)
}

type Handler struct {
	Repo   *Repo
	Events Publisher
}

func NewHandler(repo *Repo, events Publisher) *Handler {
	return &Handler{Repo: repo, Events: events}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, tokens auth.TokenService) {
	g := rg.Group("/admin/mangas", auth.Middleware(tokens))
	g.POST("", auth.Require(auth.OpMangaCreate), h.create)
	g.GET("", auth.Require(auth.OpMangaRead), h.list)
	g.GET("/:id", auth.Require(auth.OpMangaRead), h.get)
	g.PUT("/:id", auth.Require(auth.OpMangaUpdate), h.update)
	g.DELETE("/:id", auth.Require(auth.OpMangaDelete), h.delete)
	g.POST("/:id/seasons", auth.Require(auth.OpMangaUpdate), h.createSeason)
	g.POST("/:id/seasons/:seasonID/chapters", auth.Require(auth.OpMangaUpdate), h.createChapter)
}

type mangaReq struct {
	Title            string   `json:"title"`
	Slug             string   `json:"slug"`
	Description      string   `json:"description"`
	Author           string   `json:"author"`
	Artist           string   `json:"artist"`
	Publisher        string   `json:"publisher"`
	Status           string   `json:"status"`
	Genres           []string `json:"genres"`
	Tags             []string `json:"tags"`
	AlternativeNames []string `json:"alternative_names"`
	ReleaseYear      int      `json:"release_year"`
	CoverImage       string   `json:"cover_image"`
	Country          string   `json:"country"`
	SEOTitle         string   `json:"seo_title"`
	SEODescription   string   `json:"seo_description"`
	SEOKeywords      []string `json:"seo_keywords"`
}

// validate checks the request and returns the parsed status. The second
// return value is the HTTP status to respond with when validation fails.
func (req *mangaReq) validate() (models.MangaStatus, int, string) {
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)

	if req.Title == "" || req.Author == "" || req.Status == "" {
		return "", http.StatusBadRequest, "başlık, yazar ve durum alanları zorunludur"
	}

	status, ok := models.ParseMangaStatus(req.Status)
	if !ok {
		return "", http.StatusUnprocessableEntity, "geçersiz durum değeri"
	}

	if req.ReleaseYear != 0 {
		maxYear := time.Now().Year() + 2
		if req.ReleaseYear < minReleaseYear || req.ReleaseYear > maxYear {
			return "", http.StatusUnprocessableEntity, "geçersiz çıkış yılı"
		}
	}
	return status, 0, ""
}

func (req *mangaReq) toModel(status models.MangaStatus) models.Manga {
	s := strings.TrimSpace(req.Slug)
	if s == "" {
		s = req.Title
	}
	return models.Manga{
		Title:            req.Title,
		Slug:             slug.Make(s),
		Description:      req.Description,
		Author:           req.Author,
		Artist:           req.Artist,
		Publisher:        req.Publisher,
		Status:           status,
		Genres:           req.Genres,
		Tags:             req.Tags,
		AlternativeNames: req.AlternativeNames,
		ReleaseYear:      req.ReleaseYear,
		CoverImage:       req.CoverImage,
		Country:          req.Country,
		SEOTitle:         req.SEOTitle,
		SEODescription:   req.SEODescription,
		SEOKeywords:      req.SEOKeywords,
	}
}

func (h *Handler) create(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil || !auth.Allowed(auth.OpMangaCreate, claims.Role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "yetkiniz bulunmamaktadır"})
		return
	}

	var req mangaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	status, code, msg := req.validate()
	if code != 0 {
		c.JSON(code, gin.H{"error": msg})
		return
	}

	m := req.toModel(status)
	m.ID = uuid.NewString()
	m.CreatedByID = claims.UserID

	created, err := h.Repo.Create(c.Request.Context(), m)
	if err != nil {
		switch {
		case errors.Is(err, ErrTitleTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "bu başlıkta bir manga zaten mevcut"})
		case errors.Is(err, ErrSlugTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "bu slug zaten kullanılıyor"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "manga oluşturulamadı"})
		}
		return
	}

	h.publish("manga.created", created)
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) list(c *gin.Context) {
	q := ListQuery{
		Search: c.Query("search"),
		Page:   intQuery(c, "page", defaultPage),
		Limit:  intQuery(c, "limit", defaultLimit),
	}
	if q.Page < 1 {
		q.Page = defaultPage
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}

	total, err := h.Repo.Count(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listeleme başarısız"})
		return
	}

	mangas, err := h.Repo.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listeleme başarısız"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mangas":     mangas,
		"total":      total,
		"page":       q.Page,
		"limit":      q.Limit,
		"totalPages": int(math.Ceil(float64(total) / float64(q.Limit))),
	})
}

func (h *Handler) get(c *gin.Context) {
	m, err := h.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "manga yüklenemedi"})
		return
	}
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "manga bulunamadı"})
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) update(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil || !auth.Allowed(auth.OpMangaUpdate, claims.Role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "yetkiniz bulunmamaktadır"})
		return
	}

	var req mangaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	status, code, msg := req.validate()
	if code != 0 {
		c.JSON(code, gin.H{"error": msg})
		return
	}

	updated, err := h.Repo.Update(c.Request.Context(), c.Param("id"), req.toModel(status))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "manga bulunamadı"})
		case errors.Is(err, ErrTitleTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "bu başlıkta bir manga zaten mevcut"})
		case errors.Is(err, ErrSlugTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "bu slug zaten kullanılıyor"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "manga güncellenemedi"})
		}
		return
	}

	h.publish("manga.updated", updated)
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) delete(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil || !auth.Allowed(auth.OpMangaDelete, claims.Role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "yetkiniz bulunmamaktadır"})
		return
	}

	id := c.Param("id")
	if err := h.Repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "manga bulunamadı"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "manga silinemedi"})
		return
	}

	h.publish("manga.deleted", gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"message": "manga silindi"})
}

type seasonReq struct {
	Name   string `json:"name"`
	Number int    `json:"number"`
}

func (h *Handler) createSeason(c *gin.Context) {
	var req seasonReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Number < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sezon adı ve numarası zorunludur"})
		return
	}

	s, err := h.Repo.CreateSeason(c.Request.Context(), models.Season{
		ID:      uuid.NewString(),
		MangaID: c.Param("id"),
		Name:    req.Name,
		Number:  req.Number,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "manga bulunamadı"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sezon oluşturulamadı"})
		return
	}

	h.publish("season.created", s)
	c.JSON(http.StatusCreated, s)
}

type chapterReq struct {
	Title  string `json:"title"`
	Number int    `json:"number"`
}

func (h *Handler) createChapter(c *gin.Context) {
	var req chapterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Number < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bölüm numarası zorunludur"})
		return
	}

	ch, err := h.Repo.CreateChapter(c.Request.Context(), models.Chapter{
		ID:       uuid.NewString(),
		SeasonID: c.Param("seasonID"),
		Title:    strings.TrimSpace(req.Title),
		Number:   req.Number,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "sezon bulunamadı"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "bölüm oluşturulamadı"})
		return
	}

	h.publish("chapter.created", ch)
	c.JSON(http.StatusCreated, ch)
}

func (h *Handler) publish(event string, payload any) {
	if h.Events != nil {
		h.Events.Publish(event, payload)
	}
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
