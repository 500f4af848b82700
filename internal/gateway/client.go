package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prospectlab/prospect/internal/models"
)

// Client talks to the external data/AI backend. Every operation is a single
// request against a fixed path under the configured base URL; there is no
// retry and no response-schema validation beyond JSON decoding.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// SearchResult is the payload of a company search. The id doubles as the
// history entry id so a past search can be replayed.
type SearchResult struct {
	ID   string           `json:"id"`
	Data []models.Company `json:"data"`
}

// File is one uploaded document forwarded to the extraction endpoints.
type File struct {
	Name   string
	Reader io.Reader
}

func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Companies runs a keyword search against one data source.
func (c *Client) Companies(ctx context.Context, query string, source models.Source, user string) (*SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("source", string(source))
	params.Set("user", user)

	var result SearchResult
	if err := c.get(ctx, "/company", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Employees fetches the employee lists for a batch of company ids.
func (c *Client) Employees(ctx context.Context, user string, companyIDs []string) (models.EmployeeMap, error) {
	params := url.Values{}
	params.Set("ids", strings.Join(companyIDs, ","))
	params.Set("user", user)

	var result models.EmployeeMap
	if err := c.get(ctx, "/employee", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Contact fetches the gated contact fields for one employee.
func (c *Client) Contact(ctx context.Context, user, employeeID string) (*models.ContactUpdate, error) {
	params := url.Values{}
	params.Set("id", employeeID)
	params.Set("user", user)

	var result models.ContactUpdate
	if err := c.get(ctx, "/contact", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// History replays a past search, returning the same company rows.
func (c *Client) History(ctx context.Context, user, historyID string) ([]models.Company, error) {
	params := url.Values{}
	params.Set("id", historyID)
	params.Set("user", user)

	var result []models.Company
	if err := c.get(ctx, "/history", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// URLToKeywords derives search keywords from a company website.
func (c *Client) URLToKeywords(ctx context.Context, rawURL, user string) ([]string, error) {
	params := url.Values{}
	params.Set("url", rawURL)
	params.Set("user", user)

	var result []string
	if err := c.get(ctx, "/url2keyword", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// FilesToKeywords derives search keywords from uploaded documents.
func (c *Client) FilesToKeywords(ctx context.Context, user string, files []File) ([]string, error) {
	var result []string
	if err := c.postMultipart(ctx, "/file2keyword", user, files, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// URLToProfile derives outreach profile suggestions from a company website.
func (c *Client) URLToProfile(ctx context.Context, rawURL, user string) (*models.ProfileSuggest, error) {
	params := url.Values{}
	params.Set("url", rawURL)
	params.Set("user", user)

	var result models.ProfileSuggest
	if err := c.get(ctx, "/url2profile", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FilesToProfile derives outreach profile suggestions from uploaded documents.
func (c *Client) FilesToProfile(ctx context.Context, user string, files []File) (*models.ProfileSuggest, error) {
	var result models.ProfileSuggest
	if err := c.postMultipart(ctx, "/file2profile", user, files, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateMail asks the backend to draft an outreach email from the given
// personalization fields.
func (c *Client) GenerateMail(ctx context.Context, fields map[string]string) (*models.MailDraft, error) {
	params := url.Values{}
	for k, v := range fields {
		params.Set(k, v)
	}

	var result models.MailDraft
	if err := c.get(ctx, "/genmail", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("gateway: build request: %w", err)
	}

	c.logger.Debug("gateway request", slog.String("method", "GET"), slog.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: %s: %w", path, err)
	}
	defer resp.Body.Close()

	return decodeResponse(path, resp, v)
}

func (c *Client) postMultipart(ctx context.Context, path, user string, files []File, v any) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for _, f := range files {
		part, err := writer.CreateFormFile("files", f.Name)
		if err != nil {
			return fmt.Errorf("gateway: multipart part: %w", err)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return fmt.Errorf("gateway: read upload %q: %w", f.Name, err)
		}
	}
	if err := writer.WriteField("user", user); err != nil {
		return fmt.Errorf("gateway: multipart field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("gateway: multipart close: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.logger.Debug("gateway request", slog.String("method", "POST"), slog.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: %s: %w", path, err)
	}
	defer resp.Body.Close()

	return decodeResponse(path, resp, v)
}

func decodeResponse(path string, resp *http.Response, v any) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway: %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("gateway: %s: decode response: %w", path, err)
	}
	return nil
}
