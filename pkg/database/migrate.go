package database

import (
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT UNIQUE NOT NULL,
	name TEXT,
	password_hash TEXT,
	role TEXT NOT NULL DEFAULT 'STANDART_KULLANICI',
	image TEXT,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS mangas (
	id TEXT PRIMARY KEY,
	title TEXT UNIQUE NOT NULL,
	slug TEXT UNIQUE NOT NULL,
	description TEXT,
	author TEXT NOT NULL,
	artist TEXT,
	publisher TEXT,
	status TEXT NOT NULL,
	genres TEXT NOT NULL DEFAULT '[]',
	tags TEXT NOT NULL DEFAULT '[]',
	alternative_names TEXT NOT NULL DEFAULT '[]',
	release_year INTEGER,
	cover_image TEXT,
	country TEXT,
	seo_title TEXT,
	seo_description TEXT,
	seo_keywords TEXT NOT NULL DEFAULT '[]',
	created_by_id TEXT NOT NULL REFERENCES users(id),
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS seasons (
	id TEXT PRIMARY KEY,
	manga_id TEXT NOT NULL REFERENCES mangas(id),
	name TEXT NOT NULL,
	number INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS chapters (
	id TEXT PRIMARY KEY,
	season_id TEXT NOT NULL REFERENCES seasons(id),
	title TEXT,
	number INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_mangas_title ON mangas(title);
CREATE INDEX IF NOT EXISTS idx_mangas_author ON mangas(author);
CREATE INDEX IF NOT EXISTS idx_mangas_created_at ON mangas(created_at);
CREATE INDEX IF NOT EXISTS idx_seasons_manga ON seasons(manga_id);
CREATE INDEX IF NOT EXISTS idx_chapters_season ON chapters(season_id);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
