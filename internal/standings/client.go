// Package standings fetches driver and constructor championship standings
// from an ergast-compatible API.
package standings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/gridfan/paddock/internal/cache"
	"github.com/gridfan/paddock/pkg/config"
	"github.com/gridfan/paddock/pkg/logging"
	"github.com/gridfan/paddock/pkg/telemetry"
)

const maxAttempts = 3

// DriverStanding is one row of the driver championship
type DriverStanding struct {
	Position int     `json:"position"`
	Points   float64 `json:"points"`
	Wins     int     `json:"wins"`
	Driver   string  `json:"driver"`
	Team     string  `json:"team"`
}

// ConstructorStanding is one row of the constructor championship
type ConstructorStanding struct {
	Position    int     `json:"position"`
	Points      float64 `json:"points"`
	Wins        int     `json:"wins"`
	Team        string  `json:"team"`
	Nationality string  `json:"nationality"`
}

// Client fetches standings from the upstream API
type Client struct {
	httpClient *http.Client
	baseURL    string
	season     string
	cache      *cache.Cache
	ttl        time.Duration
	logger     *zap.Logger
}

// New creates a standings client
func New(cfg *config.StandingsConfig, redisCache *cache.Cache) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    cfg.BaseURL,
		season:     cfg.Season,
		cache:      redisCache,
		ttl:        cfg.CacheTTL,
		logger:     logging.WithComponent("standings-client"),
	}
}

// DriverStandings returns the current driver championship order
func (c *Client) DriverStandings(ctx context.Context) ([]DriverStanding, error) {
	ctx, span := telemetry.StartSpan(ctx, "standings.drivers")
	defer span.End()

	cacheKey := cache.HashKey("standings_drivers", c.season)
	if c.cache != nil {
		var cached []DriverStanding
		if err := c.cache.GetJSON(cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	var payload ergastResponse
	url := fmt.Sprintf("%s/%s/driverStandings.json", c.baseURL, c.season)
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch driver standings: %w", err)
	}

	lists := payload.MRData.StandingsTable.StandingsLists
	if len(lists) == 0 {
		return []DriverStanding{}, nil
	}

	var nums wireNumbers
	out := make([]DriverStanding, 0, len(lists[0].DriverStandings))
	for _, row := range lists[0].DriverStandings {
		standing := DriverStanding{
			Position: nums.atoi(row.Position),
			Points:   nums.atof(row.Points),
			Wins:     nums.atoi(row.Wins),
			Driver:   row.Driver.GivenName + " " + row.Driver.FamilyName,
		}
		if len(row.Constructors) > 0 {
			standing.Team = row.Constructors[0].Name
		}
		out = append(out, standing)
	}
	c.logParseFailure("driver standings", nums.err)

	c.cacheResult(cacheKey, out)
	return out, nil
}

// ConstructorStandings returns the current constructor championship order
func (c *Client) ConstructorStandings(ctx context.Context) ([]ConstructorStanding, error) {
	ctx, span := telemetry.StartSpan(ctx, "standings.constructors")
	defer span.End()

	cacheKey := cache.HashKey("standings_constructors", c.season)
	if c.cache != nil {
		var cached []ConstructorStanding
		if err := c.cache.GetJSON(cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	var payload ergastResponse
	url := fmt.Sprintf("%s/%s/constructorStandings.json", c.baseURL, c.season)
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch constructor standings: %w", err)
	}

	lists := payload.MRData.StandingsTable.StandingsLists
	if len(lists) == 0 {
		return []ConstructorStanding{}, nil
	}

	var nums wireNumbers
	out := make([]ConstructorStanding, 0, len(lists[0].ConstructorStandings))
	for _, row := range lists[0].ConstructorStandings {
		out = append(out, ConstructorStanding{
			Position:    nums.atoi(row.Position),
			Points:      nums.atof(row.Points),
			Wins:        nums.atoi(row.Wins),
			Team:        row.Constructor.Name,
			Nationality: row.Constructor.Nationality,
		})
	}
	c.logParseFailure("constructor standings", nums.err)

	c.cacheResult(cacheKey, out)
	return out, nil
}

func (c *Client) logParseFailure(what string, err error) {
	if err == nil {
		return
	}
	c.logger.Warn("malformed number in upstream response",
		zap.String("response", what),
		zap.Error(err))
}

// getJSON fetches a URL with a small retry loop and decodes the body
func (c *Client) getJSON(ctx context.Context, url string, dest interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			func() {
				defer resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					lastErr = fmt.Errorf("unexpected status: %s", resp.Status)
					return
				}
				lastErr = json.NewDecoder(resp.Body).Decode(dest)
			}()
			if lastErr == nil {
				return nil
			}
		}

		if attempt < maxAttempts {
			c.logger.Warn("standings fetch retry",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}
	}
	return lastErr
}

func (c *Client) cacheResult(key string, value interface{}) {
	if c.cache == nil {
		return
	}
	if err := c.cache.SetJSON(key, value, c.ttl); err != nil && err != cache.ErrCacheDisabled {
		c.logger.Warn("standings cache write failed", zap.Error(err))
	}
}

// ergast wire format; numbers arrive as strings
type ergastResponse struct {
	MRData struct {
		StandingsTable struct {
			StandingsLists []struct {
				DriverStandings []struct {
					Position string `json:"position"`
					Points   string `json:"points"`
					Wins     string `json:"wins"`
					Driver   struct {
						GivenName  string `json:"givenName"`
						FamilyName string `json:"familyName"`
					} `json:"Driver"`
					Constructors []struct {
						Name string `json:"name"`
					} `json:"Constructors"`
				} `json:"DriverStandings"`
				ConstructorStandings []struct {
					Position    string `json:"position"`
					Points      string `json:"points"`
					Wins        string `json:"wins"`
					Constructor struct {
						Name        string `json:"name"`
						Nationality string `json:"nationality"`
					} `json:"Constructor"`
				} `json:"ConstructorStandings"`
			} `json:"StandingsLists"`
		} `json:"StandingsTable"`
	} `json:"MRData"`
}

// wireNumbers parses the API's string-encoded numbers, keeping the first
// parse failure so a malformed row can be logged instead of degrading to
// zero silently. Malformed fields still yield zero; the rest of the
// response is served.
type wireNumbers struct {
	err error
}

func (w *wireNumbers) atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil && w.err == nil {
		w.err = fmt.Errorf("parse %q: %w", s, err)
	}
	return n
}

func (w *wireNumbers) atof(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && w.err == nil {
		w.err = fmt.Errorf("parse %q: %w", s, err)
	}
	return f
}
