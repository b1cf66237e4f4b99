package main

import "os"

// Overridable at link time to bake a default sync endpoint into release
// builds.
var (
	defaultScoreAPIURL string
	defaultScoreAPIKey string
)

func loadEmbeddedEnv() {
	if defaultScoreAPIURL != "" {
		if _, exists := os.LookupEnv("TETRIS_SCORE_API_URL"); !exists {
			_ = os.Setenv("TETRIS_SCORE_API_URL", defaultScoreAPIURL)
		}
	}
	if defaultScoreAPIKey != "" {
		if _, exists := os.LookupEnv("TETRIS_SCORE_API_KEY"); !exists {
			_ = os.Setenv("TETRIS_SCORE_API_KEY", defaultScoreAPIKey)
		}
	}
}
