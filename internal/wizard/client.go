package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mangapanel/pkg/models"
)

// Submitter posts a finished application to the panel's submission
// endpoint.
type Submitter struct {
	BaseURL string
	Client  *http.Client
}

func NewSubmitter(baseURL string) *Submitter {
	return &Submitter{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Submit sends the application. A non-2xx response is returned as an
// error carrying the server's message when one is present.
func (s *Submitter) Submit(ctx context.Context, app models.Application) error {
	body, err := json.Marshal(app)
	if err != nil {
		return fmt.Errorf("marshal application: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.BaseURL+"/api/application-submit", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("submit application: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	var serverErr struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(raw, &serverErr) == nil && serverErr.Error != "" {
		return fmt.Errorf("submission rejected: %s", serverErr.Error)
	}
	return fmt.Errorf("submission rejected: status %d", resp.StatusCode)
}
