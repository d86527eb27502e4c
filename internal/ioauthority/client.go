// Package ioauthority implements the taxonomy authority client
// against the GBIF species API. This is an impure I/O package.
//
// The client is read-only and never retries: transient failures go
// back to the caller, and the caller throttles between calls. The
// authority applies undocumented adaptive rate limits, so built-in
// backoff would only hide the tuning knob the operator needs.
package ioauthority

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gnames/gnrecon/pkg/authority"
	"github.com/gnames/gnrecon/pkg/config"
	"github.com/gnames/gnrecon/pkg/schema"
)

type client struct {
	baseURL string
	http    *http.Client
}

// New creates a GBIF-backed authority client.
func New(cfg *config.AuthorityConfig) authority.Client {
	return &client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		},
	}
}

// RecordByID fetches one taxon record by its authority identifier.
// Locally-minted identifiers are never known to the authority and
// short-circuit to NotFound without a network call.
func (c *client) RecordByID(
	ctx context.Context, id string,
) (*authority.Record, error) {
	if schema.IsLocalID(id) {
		slog.Debug("authority lookup skipped for local id", "key", id)
		return nil, &authority.NotFoundError{ID: id}
	}
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		slog.Warn("authority lookup with non-numeric id", "key", id)
		return nil, &authority.NotFoundError{ID: id}
	}

	u := fmt.Sprintf("%s/species/%s", c.baseURL, id)
	var rec authority.Record
	status, err := c.getJSON(ctx, u, &rec)
	slog.Info("authority fetch", "key", id, "status", status)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, &authority.NotFoundError{ID: id}
	}
	if status != http.StatusOK {
		return nil, StatusError(u, status)
	}
	return &rec, nil
}

// MatchByName performs a best-effort fuzzy lookup via the match
// endpoint.
func (c *client) MatchByName(
	ctx context.Context, name string, rank schema.Rank,
) (*authority.Match, error) {
	vals := url.Values{}
	vals.Set("name", name)
	if rank != schema.RankUnknown {
		vals.Set("rank", strings.ToUpper(string(rank)))
	}
	u := fmt.Sprintf("%s/species/match?%s", c.baseURL, vals.Encode())

	var m authority.Match
	status, err := c.getJSON(ctx, u, &m)
	slog.Info("authority match",
		"name", name, "rank", rank, "status", status,
		"match_type", m.MatchType,
	)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, StatusError(u, status)
	}
	if m.MatchType == "" {
		m.MatchType = authority.MatchNone
	}
	if m.MatchType == authority.MatchNone || m.UsageKey == 0 {
		return nil, &authority.NotFoundError{Name: name}
	}
	if !m.MatchType.Usable() {
		return nil, &authority.AmbiguousMatchError{
			Name:      name,
			MatchType: m.MatchType,
		}
	}
	return &m, nil
}

// vernacularPage is the shape of the vernacularNames endpoint.
type vernacularPage struct {
	Results []authority.Vernacular `json:"results"`
}

// VernacularNames lists common names for a taxon. Only the first
// page is fetched; vernacular completeness is not a reconciliation
// concern.
func (c *client) VernacularNames(
	ctx context.Context, id string,
) ([]authority.Vernacular, error) {
	if schema.IsLocalID(id) {
		return nil, nil
	}

	u := fmt.Sprintf(
		"%s/species/%s/vernacularNames?limit=100", c.baseURL, id)
	var page vernacularPage
	status, err := c.getJSON(ctx, u, &page)
	slog.Info("authority vernaculars", "key", id, "status", status)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, &authority.NotFoundError{ID: id}
	}
	if status != http.StatusOK {
		return nil, StatusError(u, status)
	}
	return page.Results, nil
}

// getJSON performs one GET and decodes the body when the status
// carries one. Returns the HTTP status alongside transport errors so
// every call can be logged with it.
func (c *client) getJSON(
	ctx context.Context, u string, target any,
) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, RequestError(u, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, RequestError(u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return resp.StatusCode, DecodeError(u, err)
	}
	return resp.StatusCode, nil
}
