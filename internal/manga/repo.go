package manga

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"mangapanel/pkg/models"
)

var (
	ErrNotFound   = errors.New("manga not found")
	ErrTitleTaken = errors.New("title already exists")
	ErrSlugTaken  = errors.New("slug already exists")
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

type ListQuery struct {
	Search string // case-insensitive substring match on title or author
	Page   int    // 1-based
	Limit  int
}

const mangaColumns = `
	m.id, m.title, m.slug, m.description, m.author, m.artist, m.publisher,
	m.status, m.genres, m.tags, m.alternative_names, m.release_year,
	m.cover_image, m.country, m.seo_title, m.seo_description, m.seo_keywords,
	m.created_by_id, m.created_at,
	u.id, u.name, u.email`

const mangaFrom = `
	FROM mangas m
	JOIN users u ON u.id = m.created_by_id`

type mangaScanner interface {
	Scan(dest ...any) error
}

func scanManga(row mangaScanner) (*models.Manga, error) {
	var (
		m                            models.Manga
		creator                      models.CreatorRef
		desc, artist, pub            sql.NullString
		cover, country               sql.NullString
		seoTitle, seoDesc            sql.NullString
		year                         sql.NullInt64
		genres, tags, alts, keywords string
		creatorName                  sql.NullString
		status                       string
	)

	err := row.Scan(
		&m.ID, &m.Title, &m.Slug, &desc, &m.Author, &artist, &pub,
		&status, &genres, &tags, &alts, &year,
		&cover, &country, &seoTitle, &seoDesc, &keywords,
		&m.CreatedByID, &m.CreatedAt,
		&creator.ID, &creatorName, &creator.Email,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan manga: %w", err)
	}

	m.Description = desc.String
	m.Artist = artist.String
	m.Publisher = pub.String
	m.Status = models.MangaStatus(status)
	m.ReleaseYear = int(year.Int64)
	m.CoverImage = cover.String
	m.Country = country.String
	m.SEOTitle = seoTitle.String
	m.SEODescription = seoDesc.String
	creator.Name = creatorName.String
	m.CreatedBy = &creator

	m.Genres = fromJSONList(genres)
	m.Tags = fromJSONList(tags)
	m.AlternativeNames = fromJSONList(alts)
	m.SEOKeywords = fromJSONList(keywords)
	return &m, nil
}

func (r *Repo) Create(ctx context.Context, m models.Manga) (*models.Manga, error) {
	if taken, err := r.titleTaken(ctx, m.Title, ""); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrTitleTaken
	}
	if taken, err := r.slugTaken(ctx, m.Slug, ""); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrSlugTaken
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO mangas (
			id, title, slug, description, author, artist, publisher, status,
			genres, tags, alternative_names, release_year, cover_image, country,
			seo_title, seo_description, seo_keywords, created_by_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		m.ID, m.Title, m.Slug, nullable(m.Description), m.Author,
		nullable(m.Artist), nullable(m.Publisher), string(m.Status),
		toJSONList(m.Genres), toJSONList(m.Tags), toJSONList(m.AlternativeNames),
		nullableInt(m.ReleaseYear), nullable(m.CoverImage), nullable(m.Country),
		nullable(m.SEOTitle), nullable(m.SEODescription), toJSONList(m.SEOKeywords),
		m.CreatedByID,
	)
	if err != nil {
		// two racing creates with the same title or slug land here
		if isUniqueViolation(err, "mangas.title") {
			return nil, ErrTitleTaken
		}
		if isUniqueViolation(err, "mangas.slug") {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create manga: %w", err)
	}

	return r.getBase(ctx, m.ID)
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	where, args := listFilter(q)
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) `+mangaFrom+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count mangas: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Manga, error) {
	where, args := listFilter(q)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+mangaColumns+mangaFrom+where+`
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT ? OFFSET ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list mangas: %w", err)
	}
	defer rows.Close()

	out := make([]models.Manga, 0, q.Limit)
	for rows.Next() {
		m, err := scanManga(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func listFilter(q ListQuery) (string, []any) {
	if strings.TrimSpace(q.Search) == "" {
		return "", nil
	}
	kw := "%" + strings.ToLower(strings.TrimSpace(q.Search)) + "%"
	return ` WHERE (LOWER(m.title) LIKE ? OR LOWER(m.author) LIKE ?)`, []any{kw, kw}
}

// getBase fetches a manga with its creator but without seasons.
func (r *Repo) getBase(ctx context.Context, id string) (*models.Manga, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+mangaColumns+mangaFrom+` WHERE m.id = ?`, id)
	return scanManga(row)
}

// GetByID fetches a manga with creator, seasons and chapters.
func (r *Repo) GetByID(ctx context.Context, id string) (*models.Manga, error) {
	m, err := r.getBase(ctx, id)
	if err != nil || m == nil {
		return m, err
	}

	seasons, err := r.seasonsOf(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Seasons = seasons
	return m, nil
}

func (r *Repo) seasonsOf(ctx context.Context, mangaID string) ([]models.Season, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, manga_id, name, number, created_at
		FROM seasons
		WHERE manga_id = ?
		ORDER BY number ASC
	`, mangaID)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	defer rows.Close()

	var seasons []models.Season
	for rows.Next() {
		var s models.Season
		if err := rows.Scan(&s.ID, &s.MangaID, &s.Name, &s.Number, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		seasons = append(seasons, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}

	for i := range seasons {
		chapters, err := r.chaptersOf(ctx, seasons[i].ID)
		if err != nil {
			return nil, err
		}
		seasons[i].Chapters = chapters
	}
	return seasons, nil
}

func (r *Repo) chaptersOf(ctx context.Context, seasonID string) ([]models.Chapter, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, season_id, title, number, created_at
		FROM chapters
		WHERE season_id = ?
		ORDER BY number ASC
	`, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	defer rows.Close()

	var chapters []models.Chapter
	for rows.Next() {
		var (
			c     models.Chapter
			title sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.SeasonID, &title, &c.Number, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chapter: %w", err)
		}
		c.Title = title.String
		chapters = append(chapters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return chapters, nil
}

// Update rewrites the mutable fields of a manga. The caller supplies the
// recomputed slug.
func (r *Repo) Update(ctx context.Context, id string, m models.Manga) (*models.Manga, error) {
	existing, err := r.getBase(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	if taken, err := r.titleTaken(ctx, m.Title, id); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrTitleTaken
	}

	_, err = r.DB.ExecContext(ctx, `
		UPDATE mangas SET
			title = ?, slug = ?, description = ?, author = ?, artist = ?,
			publisher = ?, status = ?, genres = ?, tags = ?,
			alternative_names = ?, release_year = ?, cover_image = ?,
			country = ?, seo_title = ?, seo_description = ?, seo_keywords = ?
		WHERE id = ?
	`,
		m.Title, m.Slug, nullable(m.Description), m.Author, nullable(m.Artist),
		nullable(m.Publisher), string(m.Status), toJSONList(m.Genres),
		toJSONList(m.Tags), toJSONList(m.AlternativeNames),
		nullableInt(m.ReleaseYear), nullable(m.CoverImage), nullable(m.Country),
		nullable(m.SEOTitle), nullable(m.SEODescription), toJSONList(m.SEOKeywords),
		id,
	)
	if err != nil {
		if isUniqueViolation(err, "mangas.title") {
			return nil, ErrTitleTaken
		}
		if isUniqueViolation(err, "mangas.slug") {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("update manga: %w", err)
	}

	return r.getBase(ctx, id)
}

// Delete removes a manga together with its seasons and chapters, in one
// transaction: chapters first, then seasons, then the manga. Either the
// whole tree goes or nothing does.
func (r *Repo) Delete(ctx context.Context, id string) error {
	existing, err := r.getBase(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		DELETE FROM chapters
		WHERE season_id IN (SELECT id FROM seasons WHERE manga_id = ?)
	`, id); err != nil {
		return fmt.Errorf("delete chapters: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM seasons WHERE manga_id = ?`, id); err != nil {
		return fmt.Errorf("delete seasons: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM mangas WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete manga: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

func (r *Repo) CreateSeason(ctx context.Context, s models.Season) (*models.Season, error) {
	existing, err := r.getBase(ctx, s.MangaID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	if _, err := r.DB.ExecContext(ctx, `
		INSERT INTO seasons (id, manga_id, name, number)
		VALUES (?, ?, ?, ?)
	`, s.ID, s.MangaID, s.Name, s.Number); err != nil {
		return nil, fmt.Errorf("create season: %w", err)
	}

	row := r.DB.QueryRowContext(ctx, `
		SELECT id, manga_id, name, number, created_at FROM seasons WHERE id = ?
	`, s.ID)
	var out models.Season
	if err := row.Scan(&out.ID, &out.MangaID, &out.Name, &out.Number, &out.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan season: %w", err)
	}
	return &out, nil
}

func (r *Repo) CreateChapter(ctx context.Context, c models.Chapter) (*models.Chapter, error) {
	var exists int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM seasons WHERE id = ?`, c.SeasonID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check season: %w", err)
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	if _, err := r.DB.ExecContext(ctx, `
		INSERT INTO chapters (id, season_id, title, number)
		VALUES (?, ?, ?, ?)
	`, c.ID, c.SeasonID, nullable(c.Title), c.Number); err != nil {
		return nil, fmt.Errorf("create chapter: %w", err)
	}

	row := r.DB.QueryRowContext(ctx, `
		SELECT id, season_id, title, number, created_at FROM chapters WHERE id = ?
	`, c.ID)
	var (
		out   models.Chapter
		title sql.NullString
	)
	if err := row.Scan(&out.ID, &out.SeasonID, &title, &out.Number, &out.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan chapter: %w", err)
	}
	out.Title = title.String
	return &out, nil
}

func (r *Repo) titleTaken(ctx context.Context, title, excludeID string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM mangas WHERE title = ? AND id != ?
	`, title, excludeID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check title: %w", err)
	}
	return n > 0, nil
}

func (r *Repo) slugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM mangas WHERE slug = ? AND id != ?
	`, slug, excludeID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return n > 0, nil
}

func toJSONList(list []string) string {
	if list == nil {
		list = []string{}
	}
	b, _ := json.Marshal(list)
	return string(b)
}

func fromJSONList(raw string) []string {
	out := []string{}
	_ = json.Unmarshal([]byte(raw), &out)
	return out
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

func isUniqueViolation(err error, column string) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: "+column)
}
