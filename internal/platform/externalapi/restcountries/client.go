package restcountries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"country_explorer/internal/platform/externalapi/restcountries/dto"
)

// ErrCountryNotFound is returned when the API has no country for the query.
var ErrCountryNotFound = errors.New("country not found")

// Country is the subset of country data the explorer stores with a favorite.
type Country struct {
	Code       string // ISO 3166-1 alpha-3
	Name       string
	Flag       string // emoji
	Region     string
	Capital    string
	Population int64
}

// Client はREST Countries APIから国情報を取得します。
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient は指定された設定とHTTPクライアントでClientを生成します。
// BaseURL が空の場合は DefaultBaseURL を使用します。
func NewClient(cfg Config, client *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, client: client}
}

// Lookup は国コード（alpha-2 または alpha-3）で国を1件取得します。
func (c *Client) Lookup(ctx context.Context, code string) (*Country, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrCountryNotFound
	}
	list, err := c.get(ctx, "/alpha/"+url.PathEscape(code))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrCountryNotFound
	}
	country := toCountry(list[0])
	return &country, nil
}

// Search は国名の部分一致で国を検索します。
func (c *Client) Search(ctx context.Context, name string) ([]Country, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCountryNotFound
	}
	list, err := c.get(ctx, "/name/"+url.PathEscape(name))
	if err != nil {
		return nil, err
	}
	out := make([]Country, 0, len(list))
	for _, r := range list {
		out = append(out, toCountry(r))
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string) ([]dto.CountryResponse, error) {
	u := c.cfg.BaseURL + path + "?fields=cca2,cca3,name,flag,region,capital,population"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrCountryNotFound
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("restcountries http %d", res.StatusCode)
	}

	// /alpha/{code} は単一オブジェクトを返すことがあるため両方を受け付ける
	var raw json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode restcountries response: %w", err)
	}
	var list []dto.CountryResponse
	if err := json.Unmarshal(raw, &list); err != nil {
		var single dto.CountryResponse
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("decode restcountries response: %w", err)
		}
		list = []dto.CountryResponse{single}
	}
	return list, nil
}

func toCountry(r dto.CountryResponse) Country {
	code := r.CCA3
	if code == "" {
		code = r.CCA2
	}
	var capital string
	if len(r.Capital) > 0 {
		capital = r.Capital[0]
	}
	return Country{
		Code:       code,
		Name:       r.Name.Common,
		Flag:       r.Flag,
		Region:     r.Region,
		Capital:    capital,
		Population: r.Population,
	}
}
