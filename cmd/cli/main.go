// Command cli is the panel's operator console: login, manga CRUD, user
// role management, and a live event tail, all against the HTTP API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"mangapanel/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

type tokenData struct {
	Token string `json:"token"`
}

type loginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt string         `json:"expires_at"`
	User      models.Profile `json:"user"`
}

type mangaListResponse struct {
	Mangas     []models.Manga `json:"mangas"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}

func main() {
	global := flag.NewFlagSet("mangapanel", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	tokenPath := global.String("token", defaultTokenPath(), "token file path")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := args[0]
	sub := ""
	if len(args) > 1 {
		sub = args[1]
	}

	client := &http.Client{Timeout: 15 * time.Second}

	switch cmd {
	case "auth":
		handleAuth(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "manga":
		handleManga(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "users":
		handleUsers(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "events":
		handleEvents(*baseURL, *tokenPath, sub, args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	switch sub {
	case "login":
		fs := flag.NewFlagSet("auth login", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if *email == "" || *password == "" {
			log.Fatal("email and password are required")
		}

		payload := map[string]string{"email": *email, "password": *password}
		var resp loginResponse
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/api/login", "", payload, &resp); err != nil {
			log.Fatalf("login failed: %v", err)
		}
		if err := saveToken(tokenPath, resp.Token); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Printf("✅ logged in as %s (%s)\n", resp.User.Name, resp.User.Role)
	case "register":
		fs := flag.NewFlagSet("auth register", flag.ExitOnError)
		name := fs.String("name", "", "display name")
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if *name == "" || *email == "" || *password == "" {
			log.Fatal("name, email, and password are required")
		}

		payload := map[string]string{"name": *name, "email": *email, "password": *password}
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/api/register", "", payload, nil); err != nil {
			log.Fatalf("register failed: %v", err)
		}
		fmt.Println("✅ registered, now login")
	case "logout":
		if err := clearToken(tokenPath); err != nil {
			log.Fatalf("logout failed: %v", err)
		}
		fmt.Println("✅ logged out")
	default:
		log.Fatal("usage: mangapanel auth <login|register|logout>")
	}
}

func handleManga(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	token := mustToken(tokenPath)
	switch sub {
	case "list":
		fs := flag.NewFlagSet("manga list", flag.ExitOnError)
		search := fs.String("search", "", "filter by title or author")
		page := fs.Int("page", 1, "page (1-based)")
		limit := fs.Int("limit", 10, "page size")
		_ = fs.Parse(args)

		u, err := url.Parse(baseURL + "/api/admin/mangas")
		if err != nil {
			log.Fatalf("invalid base url: %v", err)
		}
		qv := u.Query()
		if *search != "" {
			qv.Set("search", *search)
		}
		qv.Set("page", fmt.Sprintf("%d", *page))
		qv.Set("limit", fmt.Sprintf("%d", *limit))
		u.RawQuery = qv.Encode()

		var resp mangaListResponse
		if err := doJSON(ctx, client, http.MethodGet, u.String(), token, nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	case "show":
		fs := flag.NewFlagSet("manga show", flag.ExitOnError)
		id := fs.String("id", "", "manga id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("manga id is required")
		}

		var resp models.Manga
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/api/admin/mangas/"+url.PathEscape(*id), token, nil, &resp); err != nil {
			log.Fatalf("show failed: %v", err)
		}
		printJSON(resp)
	case "create":
		fs := flag.NewFlagSet("manga create", flag.ExitOnError)
		title := fs.String("title", "", "title")
		author := fs.String("author", "", "author")
		status := fs.String("status", string(models.StatusDevamEdiyor), "status")
		genres := fs.String("genres", "", "comma-separated genres")
		year := fs.Int("year", 0, "release year")
		_ = fs.Parse(args)
		if *title == "" || *author == "" {
			log.Fatal("title and author are required")
		}

		payload := map[string]any{
			"title":  *title,
			"author": *author,
			"status": *status,
		}
		if *genres != "" {
			payload["genres"] = strings.Split(*genres, ",")
		}
		if *year != 0 {
			payload["release_year"] = *year
		}

		var resp models.Manga
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/api/admin/mangas", token, payload, &resp); err != nil {
			log.Fatalf("create failed: %v", err)
		}
		printJSON(resp)
	case "delete":
		fs := flag.NewFlagSet("manga delete", flag.ExitOnError)
		id := fs.String("id", "", "manga id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("manga id is required")
		}

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodDelete, baseURL+"/api/admin/mangas/"+url.PathEscape(*id), token, nil, &resp); err != nil {
			log.Fatalf("delete failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: mangapanel manga <list|show|create|delete>")
	}
}

func handleUsers(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	token := mustToken(tokenPath)
	switch sub {
	case "list":
		fs := flag.NewFlagSet("users list", flag.ExitOnError)
		page := fs.Int("page", 1, "page (1-based)")
		limit := fs.Int("limit", 10, "page size")
		_ = fs.Parse(args)

		u, err := url.Parse(baseURL + "/api/admin/users")
		if err != nil {
			log.Fatalf("invalid base url: %v", err)
		}
		qv := u.Query()
		qv.Set("page", fmt.Sprintf("%d", *page))
		qv.Set("limit", fmt.Sprintf("%d", *limit))
		u.RawQuery = qv.Encode()

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, u.String(), token, nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	case "role":
		fs := flag.NewFlagSet("users role", flag.ExitOnError)
		id := fs.String("id", "", "user id")
		role := fs.String("role", "", "new role")
		_ = fs.Parse(args)
		if *id == "" || *role == "" {
			log.Fatal("user id and role are required")
		}

		payload := map[string]string{"role": *role}
		var resp models.Profile
		if err := doJSON(ctx, client, http.MethodPatch, baseURL+"/api/admin/users/"+url.PathEscape(*id), token, payload, &resp); err != nil {
			log.Fatalf("role update failed: %v", err)
		}
		printJSON(resp)
	case "delete":
		fs := flag.NewFlagSet("users delete", flag.ExitOnError)
		id := fs.String("id", "", "user id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("user id is required")
		}

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodDelete, baseURL+"/api/admin/users/"+url.PathEscape(*id), token, nil, &resp); err != nil {
			log.Fatalf("delete failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: mangapanel users <list|role|delete>")
	}
}

func handleEvents(baseURL, tokenPath, sub string, args []string) {
	switch sub {
	case "subscribe":
		fs := flag.NewFlagSet("events subscribe", flag.ExitOnError)
		wsURL := fs.String("ws", "", "WebSocket URL (defaults to /ws on API host)")
		_ = fs.Parse(args)

		token := mustToken(tokenPath)
		endpoint := *wsURL
		if endpoint == "" {
			var err error
			endpoint, err = websocketURL(baseURL, "/ws")
			if err != nil {
				log.Fatalf("ws url: %v", err)
			}
		}
		if err := runWebSocket(endpoint, token); err != nil {
			log.Fatalf("subscribe failed: %v", err)
		}
	default:
		log.Fatal("usage: mangapanel events subscribe")
	}
}

func runWebSocket(wsURL, token string) error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[events] connected to %s", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		fmt.Println(string(msg))
	}
}

func doJSON(ctx context.Context, client *http.Client, method, endpoint, token string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s", method, endpoint, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return err
	}
	return nil
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./.mangapanel-token.json"
	}
	return filepath.Join(home, ".mangapanel", "token.json")
}

func saveToken(path, token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tokenData{Token: token}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func readToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var td tokenData
	if err := json.Unmarshal(data, &td); err != nil {
		return "", err
	}
	return strings.TrimSpace(td.Token), nil
}

func mustToken(path string) string {
	token, err := readToken(path)
	if err != nil {
		log.Fatalf("token not found, please login: %v", err)
	}
	if token == "" {
		log.Fatal("token empty, please login")
	}
	return token
}

func clearToken(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}).String(), nil
}

func printUsage() {
	fmt.Println("mangapanel <command> [subcommand] [flags]")
	fmt.Println("commands:")
	fmt.Println("  auth login|register|logout")
	fmt.Println("  manga list|show|create|delete")
	fmt.Println("  users list|role|delete")
	fmt.Println("  events subscribe")
}
