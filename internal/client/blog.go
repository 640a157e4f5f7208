// HTTP client for the inkwell API. Holds the token issued at login or
// registration and attaches it to every subsequent request; Logout just
// drops the stored token.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/inkwell/backend/internal/model"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// APIError is a non-2xx response decoded into the server's error envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// ListFilter narrows a post listing, mirroring the server-side filter.
type ListFilter struct {
	AuthorID      *int64
	PublishedOnly bool
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) Token() string {
	return c.token
}

func (c *Client) SetToken(token string) {
	c.token = token
}

// Logout is client-side only: the server keeps no session state, so
// dropping the token is all there is to do.
func (c *Client) Logout() {
	c.token = ""
}

func (c *Client) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	req := model.LoginRequest{Email: email, Password: password}
	var resp model.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, email, name, password string) (*model.AuthResponse, error) {
	req := model.RegisterRequest{Email: email, Name: name, Password: password}
	var resp model.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/register", nil, req, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListPosts(ctx context.Context, filter ListFilter, page model.Pagination) (*model.PostConnection, error) {
	query := url.Values{}
	if page.Limit > 0 {
		query.Set("limit", strconv.Itoa(page.Limit))
	}
	if page.Offset > 0 {
		query.Set("offset", strconv.Itoa(page.Offset))
	}
	if filter.AuthorID != nil {
		query.Set("authorId", strconv.FormatInt(*filter.AuthorID, 10))
	}
	if filter.PublishedOnly {
		query.Set("published", "true")
	}

	var connection model.PostConnection
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/posts", query, nil, &connection); err != nil {
		return nil, err
	}
	return &connection, nil
}

func (c *Client) GetPost(ctx context.Context, postID int64) (*model.Post, error) {
	var post model.Post
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", postID), nil, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) CreatePost(ctx context.Context, req model.CreatePostRequest) (*model.Post, error) {
	var post model.Post
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/posts", nil, req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) UpdatePost(ctx context.Context, postID int64, req model.UpdatePostRequest) (*model.Post, error) {
	var post model.Post
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/v1/posts/%d", postID), nil, req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) DeletePost(ctx context.Context, postID int64) (bool, error) {
	var resp model.DeleteResponse
	if err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d", postID), nil, nil, &resp); err != nil {
		return false, err
	}
	return resp.Deleted, nil
}

func (c *Client) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := url.Values{}
	query.Set("email", email)

	var user model.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/users", query, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, reqBody, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if reqBody != nil {
		payload, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp model.ErrorResponse
		if err := json.Unmarshal(data, &errResp); err != nil || errResp.Error == "" {
			errResp.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
