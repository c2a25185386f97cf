package utils

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

type ServerConfig struct {
	Addr        string
	WebhookURL  string
	RedisAddr   string
	CORSOrigins []string
}

// LoadDotenv reads a .env file if one is present. Missing files are fine;
// real environment variables always win.
func LoadDotenv() {
	_ = godotenv.Load()
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("MANGAPANEL_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("MANGAPANEL_JWT_ISSUER")
	if issuer == "" {
		issuer = "mangapanel"
	}

	dur := 24 * time.Hour
	if ttl := os.Getenv("MANGAPANEL_JWT_TTL_HOURS"); ttl != "" {
		if h, err := strconv.Atoi(ttl); err == nil && h > 0 {
			dur = time.Duration(h) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: dur,
	}
}

func LoadServerConfig() ServerConfig {
	addr := os.Getenv("MANGAPANEL_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	origins := []string{"http://localhost:3000"}
	if raw := os.Getenv("MANGAPANEL_CORS_ORIGINS"); raw != "" {
		origins = origins[:0]
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return ServerConfig{
		Addr:        addr,
		WebhookURL:  os.Getenv("DISCORD_WEBHOOK_URL"),
		RedisAddr:   os.Getenv("MANGAPANEL_REDIS_ADDR"),
		CORSOrigins: origins,
	}
}
