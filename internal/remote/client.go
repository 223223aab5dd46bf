// Package remote is the client for the upstream TrackMyFin REST API, the
// system's only source of records. All normalization of the API's loose
// payload shapes happens here, so the rest of the module works with the
// strict core types exclusively.
package remote

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"trackmyfin/internal/core"
)

// Session carries the authentication state for upstream calls. It is
// passed explicitly to whoever needs it; there is no ambient token
// storage.
type Session struct {
	Token string
}

// Owner derives a stable, non-reversible identifier for the session's
// user, used to key snapshots.
func (s Session) Owner() string {
	sum := sha256.Sum256([]byte(s.Token))
	return hex.EncodeToString(sum[:8])
}

// Dataset is one consistent fetch of everything the analytics and export
// layers consume.
type Dataset struct {
	Transactions []core.Transaction
	Categories   []core.Category
	Salaries     []core.Salary
	FetchedAt    time.Time
}

type Client struct {
	baseURL string
	session Session
	http    *http.Client
}

func NewClient(baseURL string, session Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Transactions fetches and normalizes the user's transactions.
func (c *Client) Transactions(ctx context.Context) ([]core.Transaction, error) {
	var raw []rawTransaction
	if err := c.get(ctx, "/api/transactions", &raw); err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	out := make([]core.Transaction, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.normalize(ctx))
	}
	return out, nil
}

// Categories fetches and normalizes the user's categories.
func (c *Client) Categories(ctx context.Context) ([]core.Category, error) {
	var raw []rawCategory
	if err := c.get(ctx, "/api/categories", &raw); err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	out := make([]core.Category, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.normalize())
	}
	return out, nil
}

// Salaries fetches and normalizes the user's salary records.
func (c *Client) Salaries(ctx context.Context) ([]core.Salary, error) {
	var raw []rawSalary
	if err := c.get(ctx, "/api/salaries", &raw); err != nil {
		return nil, fmt.Errorf("fetch salaries: %w", err)
	}
	out := make([]core.Salary, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.normalize(ctx))
	}
	return out, nil
}

// Dataset fetches transactions, categories and salaries concurrently.
func (c *Client) Dataset(ctx context.Context) (Dataset, error) {
	var ds Dataset
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		ds.Transactions, err = c.Transactions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		ds.Categories, err = c.Categories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		ds.Salaries, err = c.Salaries(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return Dataset{}, err
	}

	// Attach resolved category names so downstream consumers can fall
	// back on them without re-resolving.
	names := make(map[int64]string, len(ds.Categories))
	for _, cat := range ds.Categories {
		names[cat.ID] = cat.Name
	}
	for i := range ds.Transactions {
		if ds.Transactions[i].CategoryName == "" {
			ds.Transactions[i].CategoryName = names[ds.Transactions[i].CategoryID]
		}
	}

	ds.FetchedAt = time.Now()
	return ds, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.session.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("call %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
