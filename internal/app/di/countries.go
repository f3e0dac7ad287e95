package di

import (
	"country_explorer/internal/app/config"
	"country_explorer/internal/platform/externalapi/restcountries"
	infrahttp "country_explorer/internal/platform/http"
)

// NewCountryClient creates a REST Countries client with a timeout-bound HTTP client.
func NewCountryClient(cfg *config.Config) *restcountries.Client {
	httpClient := infrahttp.NewHTTPClient(cfg.HTTPClientTimeout)
	return restcountries.NewClient(restcountries.Config{
		BaseURL: cfg.RESTCountriesBaseURL,
		Timeout: cfg.HTTPClientTimeout,
	}, httpClient)
}
