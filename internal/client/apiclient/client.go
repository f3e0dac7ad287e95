// Package apiclient は Country Explorer API の型付きHTTPクライアントです。
// すべての呼び出しは Result[T] を返し、失敗は ErrorKind で区別されます。
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"country_explorer/internal/api"
	authdto "country_explorer/internal/feature/auth/transport/http/dto"
	favdto "country_explorer/internal/feature/favorites/transport/http/dto"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:5000/api"

type (
	User     = authdto.UserRes
	Favorite = favdto.FavoriteRes
)

// Session is the outcome of register and login.
type Session struct {
	Token string
	User  User
}

// Client talks to one configured API base URL.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// New returns a Client for baseURL. A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Token returns the bearer token currently held.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the bearer token. An empty token logs the client out.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Register creates an account and keeps the issued token.
func (c *Client) Register(ctx context.Context, username, email, password string) Result[Session] {
	body := authdto.RegisterReq{Username: username, Email: email, Password: password}
	return c.authenticate(ctx, "/auth/register", body)
}

// Login authenticates by email when identifier contains "@", otherwise by username.
func (c *Client) Login(ctx context.Context, identifier, password string) Result[Session] {
	body := authdto.LoginReq{Password: password}
	if strings.Contains(identifier, "@") {
		body.Email = identifier
	} else {
		body.Username = identifier
	}
	return c.authenticate(ctx, "/auth/login", body)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) Result[Session] {
	var res authdto.AuthRes
	if e := c.do(ctx, http.MethodPost, path, body, &res); e != nil {
		return fail[Session](e)
	}
	c.SetToken(res.Token)
	return ok(Session{Token: res.Token, User: res.User})
}

// Me returns the profile of the token holder.
func (c *Client) Me(ctx context.Context) Result[User] {
	var res api.DataResponse[User]
	if e := c.do(ctx, http.MethodGet, "/auth/me", nil, &res); e != nil {
		return fail[User](e)
	}
	return ok(res.Data)
}

// ListFavorites returns the caller's favorites newest first.
func (c *Client) ListFavorites(ctx context.Context) Result[[]Favorite] {
	var res api.ListResponse[Favorite]
	if e := c.do(ctx, http.MethodGet, "/favorites", nil, &res); e != nil {
		return fail[[]Favorite](e)
	}
	if res.Data == nil {
		res.Data = []Favorite{}
	}
	return ok(res.Data)
}

// AddFavorite stores a country and returns the created record.
func (c *Client) AddFavorite(ctx context.Context, code, name, flag string) Result[Favorite] {
	body := favdto.AddFavoriteReq{CountryCode: code, CountryName: name, CountryFlag: flag}
	var res api.DataResponse[Favorite]
	if e := c.do(ctx, http.MethodPost, "/favorites", body, &res); e != nil {
		return fail[Favorite](e)
	}
	return ok(res.Data)
}

// RemoveFavorite deletes a favorite and returns the removed country code.
func (c *Client) RemoveFavorite(ctx context.Context, code string) Result[string] {
	var res favdto.RemoveFavoriteRes
	if e := c.do(ctx, http.MethodDelete, "/favorites/"+url.PathEscape(code), nil, &res); e != nil {
		return fail[string](e)
	}
	if res.CountryCode == "" {
		res.CountryCode = code
	}
	return ok(res.CountryCode)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) *Error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindDecode, Message: "encode request", Err: err}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "request failed", Err: err}
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return decodeError(res)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &Error{Kind: KindDecode, Status: res.StatusCode, Message: "decode response", Err: err}
	}
	return nil
}

func decodeError(res *http.Response) *Error {
	e := &Error{Status: res.StatusCode}

	var env api.ErrorResponse
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		e.Kind = kindFor(res.StatusCode, "")
		e.Message = http.StatusText(res.StatusCode)
		return e
	}
	e.Kind = kindFor(res.StatusCode, env.Code)
	e.Message = env.Message
	e.Fields = env.Errors
	if e.Message == "" {
		e.Message = http.StatusText(res.StatusCode)
	}
	return e
}
