// Package apply receives translator applications and forwards them to the
// team's Discord channel through a webhook.
package apply

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mangapanel/pkg/models"
)

// ErrNotConfigured is returned when no webhook URL is set. Submissions
// fail fast instead of silently dropping the application.
var ErrNotConfigured = errors.New("discord webhook url not configured")

const (
	notifyTimeout = 10 * time.Second

	// embedColor is Discord's red, matching the panel's existing alerts.
	embedColor = 15158332

	// maxFieldChars caps each page's translation, in characters, under
	// Discord's per-field limit, leaving room for the code fences.
	maxFieldChars = 250
)

type Notifier struct {
	WebhookURL string
	Client     *http.Client
}

func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{
		WebhookURL: webhookURL,
		Client:     &http.Client{Timeout: notifyTimeout},
	}
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embed struct {
	Title     string       `json:"title"`
	Color     int          `json:"color"`
	Fields    []embedField `json:"fields"`
	Timestamp string       `json:"timestamp"`
}

type webhookMessage struct {
	Embeds []embed `json:"embeds"`
}

// BuildMessage renders an application as a Discord embed: applicant
// identity up top, then one field per test page in submission order.
// Empty pages get a placeholder so reviewers can see what was skipped.
func BuildMessage(app models.Application) webhookMessage {
	fields := []embedField{
		{Name: "Ad Soyad", Value: app.Name, Inline: true},
		{Name: "E-posta", Value: "||" + app.Email + "||", Inline: true},
		{Name: "Takma Ad", Value: app.Nickname, Inline: true},
	}

	for i, page := range app.MangaTest {
		value := "> Boş Bırakıldı"
		if page != "" {
			// rune-wise so a multibyte character never gets cut in half
			if runes := []rune(page); len(runes) > maxFieldChars {
				page = string(runes[:maxFieldChars]) + "..."
			}
			value = "```\n" + page + "\n```"
		}
		fields = append(fields, embedField{
			Name:  fmt.Sprintf("Sayfa %d", i+1),
			Value: value,
		})
	}

	return webhookMessage{
		Embeds: []embed{{
			Title:     "📝 Yeni Çevirmen Başvurusu: " + app.Nickname,
			Color:     embedColor,
			Fields:    fields,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
	}
}

// Notify delivers the application to Discord. Any non-2xx response is a
// delivery failure.
func (n *Notifier) Notify(ctx context.Context, app models.Application) error {
	if n.WebhookURL == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(BuildMessage(app))
	if err != nil {
		return fmt.Errorf("marshal webhook message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := n.Client
	if client == nil {
		client = &http.Client{Timeout: notifyTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook rejected: status %d", resp.StatusCode)
	}
	return nil
}
