// Package balldontlie reads teams, rosters, schedules and box scores from the balldontlie API.
//
// The API reports neither starts nor depth charts. Every game log it yields is a bench row, so a
// store filled only from here has no starter history: players ranked first on a depth chart set
// elsewhere are skipped by the forecaster until starter rows arrive from another source.
package balldontlie

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/gamelogs"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/matchups"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/players"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/teams"
	"github.com/preston-bernstein/nba-projections-service/internal/logging"
	"github.com/preston-bernstein/nba-projections-service/internal/sources"
)

// Config controls how the client reaches the upstream API.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	// RequestsPerMinute defaults to the free-tier quota; negative disables limiting.
	RequestsPerMinute int
	MaxPages          int
	Logger            *slog.Logger
}

// Client implements the team, player, matchup and game log sources against balldontlie.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpDoer
	limiter    *rate.Limiter
	maxPages   int
	logger     *slog.Logger

	teamsMu   sync.Mutex
	teamsByID map[int]teams.Team
}

var (
	_ sources.TeamSource    = (*Client)(nil)
	_ sources.PlayerSource  = (*Client)(nil)
	_ sources.MatchupSource = (*Client)(nil)
	_ sources.GameLogSource = (*Client)(nil)
)

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		apiKey:     cfg.APIKey,
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		limiter:    newLimiter(cfg.RequestsPerMinute),
		maxPages:   resolveMaxPages(cfg.MaxPages),
		logger:     cfg.Logger,
	}
}

// Teams returns every franchise ordered by ID.
func (c *Client) Teams(ctx context.Context) ([]teams.Team, error) {
	byID, err := c.teamIndex(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]teams.Team, 0, len(byID))
	for _, t := range byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Players returns the active league roster ordered by ID.
func (c *Client) Players(ctx context.Context) ([]players.Player, error) {
	rows, err := fetchAll[playerResponse](ctx, c, playersPath, url.Values{})
	if err != nil {
		return nil, err
	}
	out := make([]players.Player, 0, len(rows))
	for _, p := range rows {
		if p.ID == 0 {
			continue
		}
		out = append(out, mapPlayer(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MatchupsBetween returns games starting in [start, end), ordered by start time.
func (c *Client) MatchupsBetween(ctx context.Context, start, end time.Time) ([]matchups.Matchup, error) {
	if !end.After(start) {
		return []matchups.Matchup{}, nil
	}
	games, err := fetchAll[gameResponse](ctx, c, "/games", dateRange(start, end))
	if err != nil {
		return nil, err
	}
	out := make([]matchups.Matchup, 0, len(games))
	for _, g := range games {
		m, err := mapGame(g)
		if err != nil {
			logging.Warn(c.logger, "skipping unreadable game", logging.FieldSource, sourceName, "error", err)
			continue
		}
		if m.Start.Before(start) || !m.Start.Before(end) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].GameID < out[j].GameID
	})
	return out, nil
}

// RecentGameLogs returns box scores for games dated from since through the day before until.
func (c *Client) RecentGameLogs(ctx context.Context, since, until time.Time) ([]gamelogs.GameLog, error) {
	if !until.After(since) {
		return []gamelogs.GameLog{}, nil
	}
	byID, err := c.teamIndex(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := fetchAll[statResponse](ctx, c, "/stats", dateRange(since, until))
	if err != nil {
		return nil, err
	}
	out := make([]gamelogs.GameLog, 0, len(stats))
	for _, s := range stats {
		log, err := mapStat(s, byID)
		if err != nil {
			logging.Warn(c.logger, "skipping unreadable stat line", logging.FieldSource, sourceName, "error", err)
			continue
		}
		out = append(out, log)
	}
	return out, nil
}

// teamIndex loads teams once per client; upstream IDs never change.
func (c *Client) teamIndex(ctx context.Context) (map[int]teams.Team, error) {
	c.teamsMu.Lock()
	defer c.teamsMu.Unlock()
	if c.teamsByID != nil {
		return c.teamsByID, nil
	}
	var p page[teamResponse]
	if err := c.get(ctx, "/teams", url.Values{}, &p); err != nil {
		return nil, err
	}
	byID := make(map[int]teams.Team, len(p.Data))
	for _, t := range p.Data {
		if t.Abbreviation == "" {
			continue
		}
		byID[t.ID] = mapTeam(t)
	}
	c.teamsByID = byID
	return byID, nil
}

// dateRange converts [start, end) to the inclusive date filters the API takes.
func dateRange(start, end time.Time) url.Values {
	q := url.Values{}
	q.Set("start_date", start.UTC().Format(dateLayout))
	q.Set("end_date", end.Add(-time.Nanosecond).UTC().Format(dateLayout))
	return q
}

func fetchAll[T any](ctx context.Context, c *Client, path string, q url.Values) ([]T, error) {
	out := make([]T, 0)
	q.Set("per_page", strconv.Itoa(defaultPerPage))
	for pageNum := 1; ; pageNum++ {
		var p page[T]
		if err := c.get(ctx, path, q, &p); err != nil {
			return nil, err
		}
		out = append(out, p.Data...)
		if p.Meta.NextCursor == 0 {
			break
		}
		if pageNum >= c.maxPages {
			logging.Warn(c.logger, "page limit reached, results truncated",
				logging.FieldSource, sourceName,
				logging.FieldPath, path,
				"max_pages", c.maxPages,
			)
			break
		}
		q.Set("cursor", strconv.Itoa(p.Meta.NextCursor))
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, dest any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", sourceName, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return &sources.RateLimitError{
			Source:     sourceName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: unexpected status %d: %s", sourceName, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%s %s: decode: %w", sourceName, path, err)
	}
	return nil
}
