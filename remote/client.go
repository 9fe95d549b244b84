// Package remote talks to the shop backend: image upload, product sync and
// product creation on the commerce API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"go.uber.org/zap"

	"github.com/sandyspace/catalog-manager/logger"
	"github.com/sandyspace/catalog-manager/models"
)

// SettingsProvider supplies the API endpoint, read fresh on every call so a
// settings change applies without a restart.
type SettingsProvider interface {
	GetSettings(ctx context.Context) models.AppSettings
}

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server responded with %d", e.StatusCode)
	}
	return fmt.Sprintf("server responded with %d: %s", e.StatusCode, e.Body)
}

// IsUpstream reports whether err came from a remote server or the network
// rather than from local input.
func IsUpstream(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return true
	}
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// UpstreamError wraps a transport or decoding failure of a remote call.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

type Client struct {
	settings         SettingsProvider
	httpClient       *http.Client
	commerceEndpoint string
	codes            func() string
	logger           logger.ZapLogger
}

type Option func(*Client)

// WithCodeGenerator replaces the random product code generator.
func WithCodeGenerator(gen func() string) Option {
	return func(c *Client) {
		c.codes = gen
	}
}

func NewClient(settings SettingsProvider, httpClient *http.Client, commerceEndpoint string, log logger.ZapLogger, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		settings:         settings,
		httpClient:       httpClient,
		commerceEndpoint: commerceEndpoint,
		codes:            randomCode,
		logger:           log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) endpoint(ctx context.Context) string {
	return strings.TrimRight(c.settings.GetSettings(ctx).APIEndpoint, "/")
}

// UploadImage posts img as multipart field "image" to {endpoint}/upload and
// returns the URL the server stored it under.
func (c *Client) UploadImage(ctx context.Context, img Image) (string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if err := writeFile(w, "image", "photo."+img.Ext, img); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	var resp struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, "upload image", c.endpoint(ctx)+"/upload", w.FormDataContentType(), body, &resp); err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", &UpstreamError{Op: "upload image", Err: errors.New("response has no url")}
	}
	return resp.URL, nil
}

// SyncProduct sends the whole product as JSON to {endpoint}/api/update.
func (c *Client) SyncProduct(ctx context.Context, p models.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.do(ctx, "sync product", c.endpoint(ctx)+"/api/update", "application/json", bytes.NewReader(data), nil)
}

// SyncProducts sends products in one request to {endpoint}/api/update-batch
// and returns how many were submitted. The server does not report per-item
// results. An empty list makes no request.
func (c *Client) SyncProducts(ctx context.Context, products []models.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}
	data, err := json.Marshal(struct {
		Products []models.Product `json:"products"`
	}{Products: products})
	if err != nil {
		return 0, err
	}
	if err := c.do(ctx, "sync products", c.endpoint(ctx)+"/api/update-batch", "application/json", bytes.NewReader(data), nil); err != nil {
		return 0, err
	}
	return len(products), nil
}

// do POSTs body and decodes a JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, op, url, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("remote call failed", zap.String("op", op), zap.Error(err))
		return &UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &UpstreamError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("remote call rejected",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
		)
		return &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &UpstreamError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func writeFile(w *multipart.Writer, field, filename string, img Image) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	h.Set("Content-Type", img.ContentType())
	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = part.Write(img.Data)
	return err
}
