// Package docstore implements store.RemoteStore against a generic
// HTTP document-store API. Documents live in a named collection; the
// backend assigns ids at creation time.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/hazard-intake-service/internal/domain"
)

// Client talks to the remote document store over HTTP.
type Client struct {
	baseURL    string
	collection string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a document-store client for the given collection.
func NewClient(baseURL, collection, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		collection: collection,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// CreateDocument stores a new hazard record and returns the id the backend
// assigned. The record's own ID field is ignored by the API.
func (c *Client) CreateDocument(ctx context.Context, rec domain.HazardRecord) (string, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode hazard: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.documentsURL(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", apiError("create document", resp)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decode create response: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("create document: backend returned no id")
	}
	return created.ID, nil
}

// ListDocuments returns every hazard record in the collection. Malformed
// coordinate payloads degrade to records without coordinates rather than
// failing the whole listing.
func (c *Client) ListDocuments(ctx context.Context) ([]domain.HazardRecord, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.documentsURL(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError("list documents", resp)
	}

	var payload struct {
		Documents []document `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}

	recs := make([]domain.HazardRecord, 0, len(payload.Documents))
	for _, doc := range payload.Documents {
		recs = append(recs, doc.toRecord(c.logger))
	}
	return recs, nil
}

// DeleteDocument removes one document by id.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	u := c.documentsURL() + "/" + url.PathEscape(id)
	req, err := c.newRequest(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return apiError("delete document", resp)
	}
	return nil
}

func (c *Client) documentsURL() string {
	return fmt.Sprintf("%s/v1/collections/%s/documents", c.baseURL, url.PathEscape(c.collection))
}

func (c *Client) newRequest(ctx context.Context, method, u string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return req, nil
}

func apiError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s: document store error: status %d: %s", op, resp.StatusCode, body)
}

// document is the wire shape of a stored hazard. Coords is decoded leniently
// because older writers stored coordinates as separate numeric fields
// instead of a [lat, lon] array.
type document struct {
	ID        string             `json:"id"`
	Text      string             `json:"text"`
	Coords    json.RawMessage    `json:"coords,omitempty"`
	CoordsLat *float64           `json:"coordsLat,omitempty"`
	CoordsLng *float64           `json:"coordsLng,omitempty"`
	Danger    domain.DangerLevel `json:"danger"`
	Address   string             `json:"address"`
	Reason    string             `json:"reason,omitempty"`
	CreatedAt int64              `json:"createdAt"`
}

func (d document) toRecord(logger *slog.Logger) domain.HazardRecord {
	rec := domain.HazardRecord{
		ID:        d.ID,
		Text:      d.Text,
		Danger:    d.Danger,
		Address:   d.Address,
		Reason:    d.Reason,
		CreatedAt: d.CreatedAt,
	}
	rec.Coords = d.parseCoords(logger)
	return rec
}

func (d document) parseCoords(logger *slog.Logger) *domain.Coords {
	if len(d.Coords) > 0 {
		var coords domain.Coords
		if err := json.Unmarshal(d.Coords, &coords); err != nil {
			logger.Warn("document has malformed coords, dropping them", "id", d.ID, "error", err)
			return nil
		}
		return &coords
	}
	if d.CoordsLat != nil && d.CoordsLng != nil {
		return &domain.Coords{Lat: *d.CoordsLat, Lon: *d.CoordsLng}
	}
	return nil
}
