package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ScoreSync pushes and pulls the score table against an optional HTTP
// endpoint. Absent configuration it stays nil and the table lives in the
// local JSON file only.
type ScoreSync struct {
	mu      sync.Mutex
	enabled bool
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewScoreSyncFromEnv(enabled bool) *ScoreSync {
	baseURL := strings.TrimSpace(os.Getenv("TETRIS_SCORE_API_URL"))
	if baseURL == "" {
		return nil
	}
	return &ScoreSync{
		enabled: enabled,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(os.Getenv("TETRIS_SCORE_API_KEY")),
		client: &http.Client{
			Timeout: 4 * time.Second,
		},
	}
}

func (s *ScoreSync) Enabled() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

func (s *ScoreSync) SetEnabled(enabled bool) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.enabled = enabled
	s.mu.Unlock()
}

func (s *ScoreSync) FetchScoresCmd() tea.Cmd {
	return func() tea.Msg {
		if !s.Enabled() {
			return scoresLoadedMsg{}
		}
		req, err := http.NewRequest(http.MethodGet, s.baseURL+"/scores?limit=10", nil)
		if err != nil {
			return scoresLoadedMsg{err: err}
		}
		if s.apiKey != "" {
			req.Header.Set("X-Api-Key", s.apiKey)
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return scoresLoadedMsg{err: err}
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return scoresLoadedMsg{err: errUnexpectedStatus(resp.StatusCode)}
		}
		var scores []ScoreEntry
		if err := json.NewDecoder(resp.Body).Decode(&scores); err != nil {
			return scoresLoadedMsg{err: err}
		}
		return scoresLoadedMsg{scores: scores}
	}
}

func (s *ScoreSync) UploadScoreCmd(entry ScoreEntry) tea.Cmd {
	return func() tea.Msg {
		if !s.Enabled() {
			return scoreUploadedMsg{}
		}
		payload, err := json.Marshal(entry)
		if err != nil {
			return scoreUploadedMsg{err: err}
		}
		req, err := http.NewRequest(http.MethodPost, s.baseURL+"/scores", bytes.NewReader(payload))
		if err != nil {
			return scoreUploadedMsg{err: err}
		}
		req.Header.Set("Content-Type", "application/json")
		if s.apiKey != "" {
			req.Header.Set("X-Api-Key", s.apiKey)
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return scoreUploadedMsg{err: err}
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return scoreUploadedMsg{err: errUnexpectedStatus(resp.StatusCode)}
		}
		return scoreUploadedMsg{}
	}
}

type statusError int

func (s statusError) Error() string {
	return "unexpected status: " + http.StatusText(int(s))
}

func errUnexpectedStatus(code int) error {
	return statusError(code)
}
