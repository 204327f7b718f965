package tabs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"urlcopier/pkg/logger"
	"urlcopier/pkg/models"

	"github.com/gorilla/websocket"
)

const DefaultEndpoint = "http://127.0.0.1:9222"

// Target is one entry of the DevTools /json/list response.
type Target struct {
	ID                   string `json:"id"`
	Type                 string `json:"type"`
	Title                string `json:"title"`
	URL                  string `json:"url"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

type versionInfo struct {
	Browser              string `json:"Browser"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// DevToolsSource captures tabs from a Chromium-family browser started with
// --remote-debugging-port. The browser lists page targets most recently
// focused first, so the first page target is the active tab.
type DevToolsSource struct {
	endpoint string
	client   *http.Client
	dialer   *websocket.Dialer
}

var _ Source = (*DevToolsSource)(nil)

func NewDevToolsSource(endpoint string) *DevToolsSource {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &DevToolsSource{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: 10 * time.Second},
		dialer:   websocket.DefaultDialer,
	}
}

// Endpoint returns the DevTools base URL.
func (s *DevToolsSource) Endpoint() string {
	return s.endpoint
}

func (s *DevToolsSource) Active(ctx context.Context) (models.CaptureRecord, bool, error) {
	pages, err := s.Pages(ctx)
	if err != nil {
		return models.CaptureRecord{}, false, err
	}
	if len(pages) == 0 {
		return models.CaptureRecord{}, false, nil
	}
	return record(pages[0]), true, nil
}

// All returns the focused window's pages in /json/list order, which is most
// recently focused first rather than the tab strip order. DevTools does not
// expose the strip position.
func (s *DevToolsSource) All(ctx context.Context) ([]models.CaptureRecord, error) {
	pages, err := s.Pages(ctx)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, nil
	}

	scoped, err := s.sameWindow(ctx, pages)
	if err != nil {
		logger.Warn().Err(err).Msg("Could not scope tabs to the focused window, copying every tab")
		scoped = pages
	}

	records := make([]models.CaptureRecord, 0, len(scoped))
	for _, p := range scoped {
		records = append(records, record(p))
	}
	return records, nil
}

// Pages returns the page targets in the order the browser reports them.
func (s *DevToolsSource) Pages(ctx context.Context) ([]Target, error) {
	var targets []Target
	if err := s.getJSON(ctx, "/json/list", &targets); err != nil {
		return nil, err
	}

	pages := make([]Target, 0, len(targets))
	for _, t := range targets {
		if t.Type == "page" {
			pages = append(pages, t)
		}
	}
	logger.Debug().Int("targets", len(targets)).Int("pages", len(pages)).Msg("Listed DevTools targets")
	return pages, nil
}

// sameWindow keeps the pages that share a window with the focused page.
func (s *DevToolsSource) sameWindow(ctx context.Context, pages []Target) ([]Target, error) {
	var version versionInfo
	if err := s.getJSON(ctx, "/json/version", &version); err != nil {
		return nil, err
	}
	if version.WebSocketDebuggerURL == "" {
		return nil, fmt.Errorf("browser did not report a debugger websocket")
	}

	conn, err := dialCDP(ctx, s.dialer, version.WebSocketDebuggerURL)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	focused, err := conn.windowForTarget(ctx, pages[0].ID)
	if err != nil {
		return nil, err
	}

	scoped := []Target{pages[0]}
	for _, p := range pages[1:] {
		windowID, err := conn.windowForTarget(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if windowID == focused {
			scoped = append(scoped, p)
		}
	}
	return scoped, nil
}

func (s *DevToolsSource) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach DevTools at %s: %w", s.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("DevTools %s returned %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode DevTools %s: %w", path, err)
	}
	return nil
}

func record(t Target) models.CaptureRecord {
	return models.CaptureRecord{Title: t.Title, URL: t.URL}
}
