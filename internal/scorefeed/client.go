// Package scorefeed fetches and shapes the upstream NBA live-score feed
// into the dashboard's game snapshots, with a short-TTL cache that serves
// stale data rather than surfacing upstream failures.
package scorefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	ScoreboardURL  = "https://cdn.nba.com/static/json/liveData/scoreboard/todaysScoreboard_00.json"
	boxScoreURLFmt = "https://cdn.nba.com/static/json/liveData/boxscore/boxscore_%s.json"
)

// Client handles NBA CDN requests
type Client struct {
	httpClient    *http.Client
	scoreboardURL string
	boxScoreURL   string
	userAgent     string
}

// NewClient creates a new NBA CDN client
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		scoreboardURL: ScoreboardURL,
		boxScoreURL:   boxScoreURLFmt,
		userAgent:     "Mozilla/5.0 (compatible; SplashtrackBot/1.0)",
	}
}

// NewClientWithBase creates a client against a different base, for tests
func NewClientWithBase(scoreboardURL, boxScoreURLFormat string) *Client {
	c := NewClient()
	c.scoreboardURL = scoreboardURL
	c.boxScoreURL = boxScoreURLFormat
	return c
}

// FetchScoreboard fetches today's games listing
func (c *Client) FetchScoreboard(ctx context.Context) (*rawScoreboard, error) {
	var sb rawScoreboard
	if err := c.fetch(ctx, c.scoreboardURL, &sb); err != nil {
		return nil, err
	}
	return &sb, nil
}

// FetchBoxScore fetches the per-game box score with player stats
func (c *Client) FetchBoxScore(ctx context.Context, gameID string) (*rawBoxScore, error) {
	var box rawBoxScore
	if err := c.fetch(ctx, fmt.Sprintf(c.boxScoreURL, gameID), &box); err != nil {
		return nil, err
	}
	return &box, nil
}

// fetch makes an HTTP GET request and decodes the JSON response
func (c *Client) fetch(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("NBA CDN error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// Upstream payload shapes. Only the fields the dashboard needs are mapped;
// anything missing decodes to a zero value rather than failing.

type rawScoreboard struct {
	Scoreboard struct {
		Games []rawGame `json:"games"`
	} `json:"scoreboard"`
}

type rawGame struct {
	GameID      string       `json:"gameId"`
	GameStatus  int          `json:"gameStatus"`
	Period      int          `json:"period"`
	GameClock   string       `json:"gameClock"`
	GameTimeUTC string       `json:"gameTimeUTC"`
	HomeTeam    rawTeamScore `json:"homeTeam"`
	AwayTeam    rawTeamScore `json:"awayTeam"`
}

type rawTeamScore struct {
	TeamTricode string `json:"teamTricode"`
	Score       int    `json:"score"`
}

type rawBoxScore struct {
	Game struct {
		HomeTeam rawBoxTeam `json:"homeTeam"`
		AwayTeam rawBoxTeam `json:"awayTeam"`
	} `json:"game"`
}

type rawBoxTeam struct {
	TeamTricode string      `json:"teamTricode"`
	Players     []rawPlayer `json:"players"`
}

type rawPlayer struct {
	PersonID   int    `json:"personId"`
	FirstName  string `json:"firstName"`
	FamilyName string `json:"familyName"`
	OnCourt    string `json:"oncourt"`
	Statistics struct {
		ThreePointersMade int    `json:"threePointersMade"`
		Minutes           string `json:"minutes"`
	} `json:"statistics"`
}
