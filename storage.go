package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
)

const (
	defaultPlayerName = "AAA"
	maxStoredScores   = 10
)

type Config struct {
	Theme      string `json:"theme"`
	Sound      bool   `json:"sound"`
	Music      bool   `json:"music"`
	Volume     int    `json:"volume"`
	Scale      int    `json:"scale"`
	Shadow     bool   `json:"shadow"`
	Fog        bool   `json:"fog"`
	Challenges bool   `json:"challenges"`
	Sync       bool   `json:"sync"`
}

// Profile is the persisted player identity: last used name and best score.
type Profile struct {
	Name string `json:"name"`
	Best int    `json:"best"`
}

type ScoreEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Lines int    `json:"lines"`
	Level int    `json:"level"`
	When  string `json:"when"`
}

func defaultConfig() Config {
	return Config{
		Theme:      themes[0].Name,
		Sound:      true,
		Music:      true,
		Volume:     70,
		Scale:      1,
		Shadow:     true,
		Challenges: true,
	}
}

// loadConfig reads the config file, falling back to defaults on any
// missing or unreadable value.
func loadConfig() (Config, error) {
	config := defaultConfig()
	path, err := storagePath("config.json")
	if err != nil {
		return config, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return config, nil
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return defaultConfig(), err
	}
	if config.Theme == "" {
		config.Theme = themes[0].Name
	}
	if config.Scale < 1 {
		config.Scale = 1
	}
	return config, nil
}

func saveConfig(config Config) error {
	return writeJSON("config.json", config)
}

func loadProfile() (Profile, error) {
	profile := Profile{Name: defaultPlayerName}
	path, err := storagePath("profile.json")
	if err != nil {
		return profile, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return profile, nil
	}
	if err := json.Unmarshal(data, &profile); err != nil {
		return Profile{Name: defaultPlayerName}, err
	}
	if profile.Name == "" {
		profile.Name = defaultPlayerName
	}
	if profile.Best < 0 {
		profile.Best = 0
	}
	return profile, nil
}

func saveProfile(profile Profile) error {
	return writeJSON("profile.json", profile)
}

// updateBest raises the profile's best score, never lowering it. The
// second return reports whether the profile changed.
func updateBest(profile Profile, score int) (Profile, bool) {
	if score <= profile.Best {
		return profile, false
	}
	profile.Best = score
	return profile, true
}

func loadScores() ([]ScoreEntry, error) {
	path, err := storagePath("scores.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return []ScoreEntry{}, nil
	}
	var scores []ScoreEntry
	if err := json.Unmarshal(data, &scores); err != nil {
		return []ScoreEntry{}, err
	}
	return scores, nil
}

func saveScores(scores []ScoreEntry) error {
	return writeJSON("scores.json", scores)
}

// insertScore keeps the table sorted by score, newest first on ties, and
// capped to the top entries.
func insertScore(scores []ScoreEntry, entry ScoreEntry) []ScoreEntry {
	scores = append(scores, entry)
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score == scores[j].Score {
			return scores[i].When > scores[j].When
		}
		return scores[i].Score > scores[j].Score
	})
	if len(scores) > maxStoredScores {
		return scores[:maxStoredScores]
	}
	return scores
}

func writeJSON(name string, value any) error {
	path, err := storagePath(name)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func storagePath(name string) (string, error) {
	root, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(root, "tetris")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// musicPath locates the optional background-music file the player may
// drop next to the config.
func musicPath() (string, error) {
	return storagePath("music.mp3")
}
