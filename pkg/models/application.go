package models

// Application is a translator application as submitted from the wizard.
// It is never persisted; it lives in the wizard's memory and in the body of
// one outbound webhook call.
type Application struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Nickname  string   `json:"nickname"`
	MangaTest []string `json:"mangaTest"`
}
