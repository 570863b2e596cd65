// internal/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// authRequiredPrefixes lists the endpoint path fragments that need a
// bearer credential attached.
var authRequiredPrefixes = []string{
	"/profile",
	"/password",
	"/cart",
	"/wishlist",
}

// TokenSource supplies the bearer credential for auth-sensitive
// endpoints. Bearer reports ok only while the token is usable.
type TokenSource interface {
	Bearer() (string, bool)
}

// Response is the uniform envelope every client call resolves to.
// Success implies Data is populated (void endpoints excepted);
// failure implies Err carries a description. Transport-level errors
// are folded into the envelope, never surfaced as raw errors.
type Response struct {
	Success bool
	Status  int
	Data    json.RawMessage
	Message string
	Err     string
}

// AsError converts a failed envelope into a typed error, or nil for a
// successful one.
func (r *Response) AsError() error {
	if r.Success {
		return nil
	}
	msg := r.Err
	if msg == "" {
		msg = r.Message
	}
	if msg == "" {
		msg = "unknown error"
	}
	return &Error{Status: r.Status, Message: msg}
}

// Error is the typed failure returned by the domain API modules.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Into unmarshals a successful envelope's data into T. A failed
// envelope yields the typed error instead.
func Into[T any](r *Response) (T, error) {
	var out T
	if err := r.AsError(); err != nil {
		return out, err
	}
	if len(r.Data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(r.Data, &out); err != nil {
		return out, &Error{Status: r.Status, Message: fmt.Sprintf("unexpected response shape: %v", err)}
	}
	return out, nil
}

// Client issues requests against one base URL and normalizes every
// outcome into a Response envelope. Two instances exist per
// application: one for the general API, one for the auth service.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *logrus.Logger
}

// NewClient creates a client bound to the given absolute base URL.
// tokens may be nil for a client that never talks to auth-sensitive
// endpoints.
func NewClient(baseURL string, tokens TokenSource, logger *logrus.Logger, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  logger,
	}
}

// Get issues a GET request, serializing params into the query string.
func (c *Client) Get(ctx context.Context, endpoint string, params map[string]string) *Response {
	if len(params) > 0 {
		values := url.Values{}
		for k, v := range params {
			values.Set(k, v)
		}
		endpoint = endpoint + "?" + values.Encode()
	}
	return c.do(ctx, http.MethodGet, endpoint, nil, nil)
}

// Post issues a POST request with a JSON body. A nil payload sends no
// body.
func (c *Client) Post(ctx context.Context, endpoint string, payload any) *Response {
	body, resp := marshalBody(payload)
	if resp != nil {
		return resp
	}
	return c.do(ctx, http.MethodPost, endpoint, body, nil)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, payload any) *Response {
	body, resp := marshalBody(payload)
	if resp != nil {
		return resp
	}
	return c.do(ctx, http.MethodPut, endpoint, body, nil)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string) *Response {
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil)
}

// PostForm issues a POST with an application/x-www-form-urlencoded
// body.
func (c *Client) PostForm(ctx context.Context, endpoint string, data url.Values) *Response {
	headers := map[string]string{"Content-Type": "application/x-www-form-urlencoded"}
	return c.do(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()), headers)
}

// FormFile is one file part of a multipart request.
type FormFile struct {
	Field    string
	Filename string
	Content  []byte
}

// PostMultipart issues a POST with a multipart/form-data body built
// from plain fields and file parts.
func (c *Client) PostMultipart(ctx context.Context, endpoint string, fields map[string]string, files ...FormFile) *Response {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return &Response{Success: false, Err: err.Error()}
		}
	}
	for _, f := range files {
		part, err := writer.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return &Response{Success: false, Err: err.Error()}
		}
		if _, err := part.Write(f.Content); err != nil {
			return &Response{Success: false, Err: err.Error()}
		}
	}
	if err := writer.Close(); err != nil {
		return &Response{Success: false, Err: err.Error()}
	}
	headers := map[string]string{"Content-Type": writer.FormDataContentType()}
	return c.do(ctx, http.MethodPost, endpoint, &buf, headers)
}

// do runs one round trip and folds the outcome into the envelope.
func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, headers map[string]string) *Response {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return &Response{Success: false, Err: err.Error()}
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	if c.tokens != nil && isAuthRequiredEndpoint(endpoint) {
		if bearer, ok := c.tokens.Bearer(); ok {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log(requestID, method, endpoint, 0, time.Since(start), err.Error())
		return &Response{Success: false, Err: networkError(err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log(requestID, method, endpoint, resp.StatusCode, time.Since(start), err.Error())
		return &Response{Success: false, Status: resp.StatusCode, Err: networkError(err)}
	}

	c.log(requestID, method, endpoint, resp.StatusCode, time.Since(start), "")

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		return jsonEnvelope(resp.StatusCode, raw)
	}
	return textEnvelope(resp.StatusCode, raw)
}

func (c *Client) log(requestID, method, endpoint string, status int, latency time.Duration, errMsg string) {
	if c.logger == nil {
		return
	}
	entry := c.logger.WithFields(logrus.Fields{
		"request_id":  requestID,
		"method":      method,
		"path":        endpoint,
		"status_code": status,
		"latency":     latency,
	})
	if errMsg != "" {
		entry = entry.WithField("error", errMsg)
	}
	switch {
	case errMsg != "" || status >= 500:
		entry.Error("API request failed")
	case status >= 400:
		entry.Warn("API request completed with client error")
	default:
		entry.Info("API request completed")
	}
}

// jsonEnvelope folds a JSON-typed response body into the envelope.
// Nested {success, data} bodies are normalized here so call sites
// never have to reach into data.data.
func jsonEnvelope(status int, raw []byte) *Response {
	if status < 200 || status > 299 {
		return &Response{Success: false, Status: status, Err: jsonErrorMessage(status, raw)}
	}

	if !json.Valid(raw) {
		return &Response{
			Success: false,
			Status:  status,
			Err:     fmt.Sprintf("invalid JSON in response body (HTTP %d)", status),
		}
	}

	var nested struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil && nested.Success != nil && len(nested.Data) > 0 {
		if !*nested.Success {
			msg := nested.Error
			if msg == "" {
				msg = nested.Message
			}
			if msg == "" {
				msg = fmt.Sprintf("HTTP %d", status)
			}
			return &Response{Success: false, Status: status, Err: msg}
		}
		return &Response{Success: true, Status: status, Data: nested.Data, Message: nested.Message}
	}

	return &Response{Success: true, Status: status, Data: raw}
}

func textEnvelope(status int, raw []byte) *Response {
	text := string(raw)
	if status < 200 || status > 299 {
		if text == "" {
			text = fmt.Sprintf("HTTP %d", status)
		}
		return &Response{Success: false, Status: status, Err: text}
	}
	return &Response{Success: true, Status: status, Data: json.RawMessage(raw), Message: text}
}

// jsonErrorMessage extracts a failure description from a JSON error
// body: a bare string, a {message} object, or the raw status code.
func jsonErrorMessage(status int, raw []byte) string {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil && asString != "" {
		return asString
	}
	var asObject struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &asObject); err == nil {
		if asObject.Message != "" {
			return asObject.Message
		}
		if asObject.Error != "" {
			return asObject.Error
		}
	}
	return fmt.Sprintf("HTTP %d", status)
}

func networkError(err error) string {
	if err == nil {
		return "network error"
	}
	return err.Error()
}

func isAuthRequiredEndpoint(endpoint string) bool {
	for _, prefix := range authRequiredPrefixes {
		if strings.Contains(endpoint, prefix) {
			return true
		}
	}
	return false
}

func marshalBody(payload any) (io.Reader, *Response) {
	if payload == nil {
		return nil, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, &Response{Success: false, Err: err.Error()}
	}
	return bytes.NewReader(raw), nil
}
