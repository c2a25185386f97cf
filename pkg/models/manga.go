package models

import "time"

// MangaStatus values mirror the publication states shown in the admin panel.
type MangaStatus string

const (
	StatusYayinBekleniyor MangaStatus = "YAYIN_BEKLENIYOR"
	StatusDevamEdiyor     MangaStatus = "DEVAM_EDIYOR"
	StatusTamamlandi      MangaStatus = "TAMAMLANDI"
	StatusDurduruldu      MangaStatus = "DURDURULDU"
	StatusIptalEdildi     MangaStatus = "IPTAL_EDILDI"
)

var AllMangaStatuses = []MangaStatus{
	StatusYayinBekleniyor,
	StatusDevamEdiyor,
	StatusTamamlandi,
	StatusDurduruldu,
	StatusIptalEdildi,
}

func ParseMangaStatus(s string) (MangaStatus, bool) {
	for _, st := range AllMangaStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

type Manga struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Slug             string      `json:"slug"`
	Description      string      `json:"description,omitempty"`
	Author           string      `json:"author"`
	Artist           string      `json:"artist,omitempty"`
	Publisher        string      `json:"publisher,omitempty"`
	Status           MangaStatus `json:"status"`
	Genres           []string    `json:"genres"`
	Tags             []string    `json:"tags"`
	AlternativeNames []string    `json:"alternative_names"`
	ReleaseYear      int         `json:"release_year,omitempty"`
	CoverImage       string      `json:"cover_image,omitempty"`
	Country          string      `json:"country,omitempty"`
	SEOTitle         string      `json:"seo_title,omitempty"`
	SEODescription   string      `json:"seo_description,omitempty"`
	SEOKeywords      []string    `json:"seo_keywords"`
	CreatedByID      string      `json:"created_by_id"`
	CreatedBy        *CreatorRef `json:"created_by,omitempty"`
	Seasons          []Season    `json:"seasons,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
}

// Season groups chapters under a manga. Deletion order is chapters, then
// seasons, then the manga itself; the storage layer does not cascade.
type Season struct {
	ID        string    `json:"id"`
	MangaID   string    `json:"manga_id"`
	Name      string    `json:"name"`
	Number    int       `json:"number"`
	Chapters  []Chapter `json:"chapters,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Chapter struct {
	ID        string    `json:"id"`
	SeasonID  string    `json:"season_id"`
	Title     string    `json:"title,omitempty"`
	Number    int       `json:"number"`
	CreatedAt time.Time `json:"created_at"`
}
