package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const hubRequestTimeout = 5 * time.Second

// HubClient talks to the external scoring hub. Both calls are bounded
// and never run on the tick path.
type HubClient struct {
	baseURL string
	gameKey string
	httpc   *http.Client
}

// NewHubClient returns a client for the given hub base URL. An empty
// base URL yields a nil client; callers treat that as "no hub".
func NewHubClient(baseURL, gameKey string) *HubClient {
	if baseURL == "" {
		return nil
	}
	return &HubClient{
		baseURL: baseURL,
		gameKey: gameKey,
		httpc:   &http.Client{Timeout: hubRequestTimeout},
	}
}

// hubPlayer is one entry of the hub's current-game roster
type hubPlayer struct {
	Name      string `json:"Name"`
	PlayerKey string `json:"PlayerKey"`
}

type currentGameResponse struct {
	Players []hubPlayer `json:"Players"`
}

// LookupName resolves a player's display name by key from the hub's
// current game roster.
func (h *HubClient) LookupName(ctx context.Context, playerKey string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/Game/currentGame", nil)
	if err != nil {
		return "", err
	}
	resp, err := h.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("hub currentGame: status %d", resp.StatusCode)
	}

	var game currentGameResponse
	if err := json.NewDecoder(resp.Body).Decode(&game); err != nil {
		return "", fmt.Errorf("hub currentGame: %w", err)
	}
	for _, p := range game.Players {
		if p.PlayerKey == playerKey {
			return p.Name, nil
		}
	}
	return "", fmt.Errorf("player key not in current game")
}

type scoreSubmission struct {
	HostedGameKey string        `json:"HostedGameKey"`
	PlayerScores  []playerScore `json:"PlayerScores"`
}

type playerScore struct {
	Score  int       `json:"Score"`
	Player hubPlayer `json:"Player"`
}

// SubmitScore posts one player's placement score. The hub accepts
// integers in [0, 100]; anything outside is clamped before sending.
func (h *HubClient) SubmitScore(ctx context.Context, name, playerKey string, score int) error {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	body, err := json.Marshal(scoreSubmission{
		HostedGameKey: h.gameKey,
		PlayerScores: []playerScore{
			{Score: score, Player: hubPlayer{Name: name, PlayerKey: playerKey}},
		},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/Game/Score", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("hub score: status %d", resp.StatusCode)
	}
	return nil
}

// PlacementScore maps a 1-based leaderboard rank to the hub's score
// scale. Rank 0 means the player was absent at submission time.
func PlacementScore(rank int) int {
	switch rank {
	case 0:
		return 0
	case 1:
		return 100
	case 2:
		return 80
	case 3:
		return 60
	case 4:
		return 40
	default:
		return 20
	}
}
