// Package api is the HTTP client for the bucket-list REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/idilsaglam/dreams/internal/logger"
	"github.com/idilsaglam/dreams/internal/model"
)

// Client talks to one server. The zero timeout means requests are never cut short.
type Client struct {
	base string // origin, no trailing slash
	http *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// NewWithHTTP lets tests inject an httptest client.
func NewWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{base: strings.TrimRight(baseURL, "/"), http: hc}
}

func (c *Client) BaseURL() string { return c.base }

// PhotoURL resolves a server-relative photo path against the server origin.
func (c *Client) PhotoURL(photoPath string) string {
	return c.base + "/" + strings.TrimLeft(photoPath, "/")
}

func (c *Client) ListItems(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := c.do(ctx, http.MethodGet, "/items", nil, "", &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

func (c *Client) Stats(ctx context.Context) (model.Stats, error) {
	var st model.Stats
	err := c.do(ctx, http.MethodGet, "/stats", nil, "", &st)
	return st, err
}

func (c *Client) CreateItem(ctx context.Context, in model.NewItem) (model.Item, error) {
	var it model.Item
	err := c.doJSON(ctx, http.MethodPost, "/items", in, &it)
	return it, err
}

func (c *Client) UpdateItem(ctx context.Context, id int64, patch model.ItemPatch) (model.Item, error) {
	var it model.Item
	err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/items/%d", id), patch, &it)
	return it, err
}

func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/items/%d", id), nil, "", nil)
}

// UploadPhoto sends one file as multipart field "photo". The server answers
// with the owning item.
func (c *Client) UploadPhoto(ctx context.Context, itemID int64, filename string, r io.Reader) (model.Item, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("photo", filepath.Base(filename))
	if err != nil {
		return model.Item{}, fmt.Errorf("multipart: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return model.Item{}, fmt.Errorf("read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return model.Item{}, fmt.Errorf("multipart: %w", err)
	}
	var it model.Item
	err = c.do(ctx, http.MethodPost, fmt.Sprintf("/items/%d/photos", itemID), &body, mw.FormDataContentType(), &it)
	return it, err
}

func (c *Client) DeletePhoto(ctx context.Context, photoID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/photos/%d", photoID), nil, "", nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	return c.do(ctx, method, path, bytes.NewReader(b), "application/json", out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+"/api"+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	l := logger.With(log.Fields{"request_id": reqID, "method": method, "path": "/api" + path})
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		l.WithError(err).Warn("request failed")
		return &TransportError{Method: method, Path: "/api" + path, Err: err}
	}
	defer resp.Body.Close()
	l.WithField("status", resp.StatusCode).WithField("elapsed", time.Since(start)).Debug("response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Method: method, Path: "/api" + path, Code: resp.StatusCode}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Path: "/api" + path, Err: err}
	}
	return nil
}
