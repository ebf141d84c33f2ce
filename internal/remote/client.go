// Package remote implements the client for the remote record store, a
// PostgREST-style HTTP interface with per-table endpoints and query-string
// filters. All calls require an authenticated session token on top of the
// project API key.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JordiMolto/MyMediaVerse/internal/entities"
)

const defaultTimeout = 30 * time.Second

// TokenSource yields the current session's access token, or "" when no
// session is active. Implemented by the auth package.
type TokenSource interface {
	AccessToken(ctx context.Context) string
}

// Client talks to the remote record store.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient creates a remote store client. baseURL and apiKey may be empty,
// in which case every call fails with ErrNotConfigured and the storage router
// treats the backend as unavailable.
func NewClient(baseURL, apiKey string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		tokens: tokens,
	}
}

// Configured reports whether the remote backend can be reached at all.
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != "" && c.apiKey != ""
}

// ListItems returns all items, newest first.
func (c *Client) ListItems(ctx context.Context) ([]entities.Item, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "fecha_creacion.desc")

	var records []ItemRecord
	if err := c.do(ctx, http.MethodGet, "/rest/v1/items", q, nil, &records); err != nil {
		return nil, err
	}

	items := make([]entities.Item, 0, len(records))
	for _, rec := range records {
		items = append(items, *FromItemRecord(rec))
	}
	return items, nil
}

// GetItem fetches one item by id. Returns ErrNotFound when no record matches.
func (c *Client) GetItem(ctx context.Context, id string) (*entities.Item, error) {
	records, err := c.itemsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return FromItemRecord(records[0]), nil
}

// CreateItem inserts a draft. Id and creation timestamp are assigned by the
// remote store, not by the caller.
func (c *Client) CreateItem(ctx context.Context, draft *entities.Item) (*entities.Item, error) {
	rec := ToItemRecord(draft)
	rec.ID = ""
	rec.FechaCreacion = ""

	var created []ItemRecord
	if err := c.do(ctx, http.MethodPost, "/rest/v1/items", nil, rec, &created); err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("remote store returned no representation for created item")
	}
	return FromItemRecord(created[0]), nil
}

// UpdateItem applies a partial update and returns the updated record.
func (c *Client) UpdateItem(ctx context.Context, id string, patch *entities.ItemPatch) (*entities.Item, error) {
	cols := ItemPatchColumns(patch)
	q := url.Values{}
	q.Set("id", "eq."+id)

	var updated []ItemRecord
	if err := c.do(ctx, http.MethodPatch, "/rest/v1/items", q, cols, &updated); err != nil {
		return nil, err
	}
	if len(updated) == 0 {
		return nil, ErrNotFound
	}
	return FromItemRecord(updated[0]), nil
}

// DeleteItem removes an item by id.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)
	return c.do(ctx, http.MethodDelete, "/rest/v1/items", q, nil, nil)
}

// ListNotes returns all notes attached to one item, newest first.
func (c *Client) ListNotes(ctx context.Context, itemID string) ([]entities.Note, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("item_id", "eq."+itemID)
	q.Set("order", "created_at.desc")

	var records []NoteRecord
	if err := c.do(ctx, http.MethodGet, "/rest/v1/notes", q, nil, &records); err != nil {
		return nil, err
	}

	notes := make([]entities.Note, 0, len(records))
	for _, rec := range records {
		notes = append(notes, *FromNoteRecord(rec))
	}
	return notes, nil
}

// GetNote fetches one note by id. Returns ErrNotFound when no record matches.
func (c *Client) GetNote(ctx context.Context, id string) (*entities.Note, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", "eq."+id)

	var records []NoteRecord
	if err := c.do(ctx, http.MethodGet, "/rest/v1/notes", q, nil, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return FromNoteRecord(records[0]), nil
}

// CreateNote inserts a draft note; the remote store assigns id and timestamp.
func (c *Client) CreateNote(ctx context.Context, draft *entities.Note) (*entities.Note, error) {
	rec := ToNoteRecord(draft)
	rec.ID = ""
	rec.CreatedAt = ""

	var created []NoteRecord
	if err := c.do(ctx, http.MethodPost, "/rest/v1/notes", nil, rec, &created); err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("remote store returned no representation for created note")
	}
	return FromNoteRecord(created[0]), nil
}

// UpdateNote applies a partial update and returns the updated record.
func (c *Client) UpdateNote(ctx context.Context, id string, patch *entities.NotePatch) (*entities.Note, error) {
	cols := NotePatchColumns(patch)
	q := url.Values{}
	q.Set("id", "eq."+id)

	var updated []NoteRecord
	if err := c.do(ctx, http.MethodPatch, "/rest/v1/notes", q, cols, &updated); err != nil {
		return nil, err
	}
	if len(updated) == 0 {
		return nil, ErrNotFound
	}
	return FromNoteRecord(updated[0]), nil
}

// DeleteNote removes a note by id.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)
	return c.do(ctx, http.MethodDelete, "/rest/v1/notes", q, nil, nil)
}

func (c *Client) itemsByID(ctx context.Context, id string) ([]ItemRecord, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", "eq."+id)

	var records []ItemRecord
	if err := c.do(ctx, http.MethodGet, "/rest/v1/items", q, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// do performs one request against the remote store. Backend-reported errors
// are surfaced to the caller unchanged; there is no retry logic here.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	token := ""
	if c.tokens != nil {
		token = c.tokens.AccessToken(ctx)
	}
	if token == "" {
		return ErrNotAuthenticated
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost || method == http.MethodPatch {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote store request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrNotAuthenticated
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StoreError{StatusCode: resp.StatusCode, Detail: strings.TrimSpace(string(detail))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode remote store response: %w", err)
	}
	return nil
}
