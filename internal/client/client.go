// Package client talks to the admin panel HTTP API. Every authenticated
// call takes the bearer token as an argument; the client holds no
// credential of its own.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/geocoder89/adminpanel/internal/domain/user"
)

// APIError is any non-2xx answer from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
}

// IsAuthError reports whether err is a 401 or 403 from the API, meaning the
// caller's token is missing, expired or rejected.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client rooted at baseURL (e.g. http://localhost:3001).
// A nil httpClient gets a 10s timeout default.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an administrator and returns its id.
func (c *Client) Register(ctx context.Context, email, password string) (int64, error) {
	var resp struct {
		Message string `json:"message"`
		AdminID int64  `json:"adminId"`
	}

	err := c.do(ctx, http.MethodPost, "/api/auth/register", "", credentials{Email: email, Password: password}, &resp)
	if err != nil {
		return 0, err
	}

	return resp.AdminID, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}

	err := c.do(ctx, http.MethodPost, "/api/auth/login", "", credentials{Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}

	if resp.Token == "" {
		return "", fmt.Errorf("login: empty token in response")
	}

	return resp.Token, nil
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]user.User, error) {
	users := []user.User{}

	if err := c.do(ctx, http.MethodGet, "/api/users", token, nil, &users); err != nil {
		return nil, err
	}

	return users, nil
}

func (c *Client) GetUser(ctx context.Context, token string, id int64) (user.User, error) {
	var u user.User

	err := c.do(ctx, http.MethodGet, userPath(id), token, nil, &u)

	return u, err
}

func (c *Client) CreateUser(ctx context.Context, token string, in user.Input) (user.User, error) {
	var u user.User

	err := c.do(ctx, http.MethodPost, "/api/users", token, in, &u)

	return u, err
}

func (c *Client) UpdateUser(ctx context.Context, token string, id int64, in user.Input) (user.User, error) {
	var u user.User

	err := c.do(ctx, http.MethodPut, userPath(id), token, in, &u)

	return u, err
}

func (c *Client) DeleteUser(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, userPath(id), token, nil, nil)
}

func userPath(id int64) string {
	return "/api/users/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}

	return nil
}

func decodeAPIError(status int, data []byte) error {
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	apiErr := &APIError{Status: status}

	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		return apiErr
	}

	apiErr.Message = http.StatusText(status)

	return apiErr
}
