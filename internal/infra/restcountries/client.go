// Package restcountries fetches the country-info feed from a REST Countries
// v3.1 compatible endpoint.
package restcountries

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"geo-quiz-service/internal/domain"
	"github.com/rs/zerolog"
)

// DefaultURL requests only the fields the catalog uses.
const DefaultURL = "https://restcountries.com/v3.1/all?fields=name,capital,region,borders,population,area,languages,currencies,cca3,timezones"

// Client is the info feed backed by the REST Countries API.
type Client struct {
	url        string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets the logger malformed records are reported to
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

func NewClient(url string, opts ...Option) *Client {
	if url == "" {
		url = DefaultURL
	}
	c := &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type currency struct {
	Name string `json:"name"`
}

// FetchCountries downloads and decodes the whole feed.
func (c *Client) FetchCountries(ctx context.Context) ([]domain.CountryInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch countries: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch countries: status %d: %w", resp.StatusCode, domain.ErrFeedUnavailable)
	}
	return Decode(body, c.logger)
}

// Decode converts a REST Countries payload into info records. Only a payload
// that is not a JSON array fails. Each record is decoded field by field: a
// malformed field is logged and left empty, and a record is dropped only when
// its cca3 code cannot be read.
func Decode(body []byte, logger zerolog.Logger) ([]domain.CountryInfo, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	countries := make([]domain.CountryInfo, 0, len(raw))
	for i, item := range raw {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			logger.Warn().Err(err).Int("index", i).Msg("skipping country record that is not an object")
			continue
		}
		var code string
		if err := decodeField(fields["cca3"], &code); err != nil || strings.TrimSpace(code) == "" {
			logger.Warn().Err(err).Int("index", i).Msg("skipping country record without cca3")
			continue
		}
		countries = append(countries, decodeCountry(code, fields, logger.With().Str("code", code).Logger()))
	}
	return countries, nil
}

func decodeCountry(code string, fields map[string]json.RawMessage, logger zerolog.Logger) domain.CountryInfo {
	info := domain.CountryInfo{Code: code}
	warn := func(field string, err error) {
		if err != nil {
			logger.Warn().Err(err).Str("field", field).Msg("malformed country field, leaving it empty")
		}
	}

	var name struct {
		Common string `json:"common"`
	}
	warn("name", decodeField(fields["name"], &name))
	info.Name = name.Common

	var err error
	info.Capitals, err = decodeStrings(fields["capital"])
	warn("capital", err)
	warn("region", decodeField(fields["region"], &info.Region))
	warn("borders", decodeField(fields["borders"], &info.Borders))
	warn("population", decodeField(fields["population"], &info.Population))
	warn("area", decodeField(fields["area"], &info.Area))
	info.Timezones, err = decodeStrings(fields["timezones"])
	warn("timezones", err)

	languages, err := objectValues(fields["languages"])
	warn("languages", err)
	for _, v := range languages {
		var lang string
		if json.Unmarshal(v, &lang) == nil && lang != "" {
			info.Languages = append(info.Languages, lang)
		}
	}

	currencies, err := objectValues(fields["currencies"])
	warn("currencies", err)
	for _, v := range currencies {
		var cur currency
		if json.Unmarshal(v, &cur) == nil && cur.Name != "" {
			info.Currencies = append(info.Currencies, cur.Name)
		}
	}
	return info
}

// decodeField unmarshals raw into dst. An absent or null field is not an
// error; dst is only written on success.
func decodeField[T any](raw json.RawMessage, dst *T) error {
	if isNull(raw) {
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	*dst = v
	return nil
}

// decodeStrings reads a list of strings, skipping entries that are not
// strings. Anything but a list is an error.
func decodeStrings(raw json.RawMessage) ([]string, error) {
	var items []json.RawMessage
	if err := decodeField(raw, &items); err != nil {
		return nil, err
	}
	var out []string
	for _, item := range items {
		var s string
		if json.Unmarshal(item, &s) == nil {
			out = append(out, s)
		}
	}
	return out, nil
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// objectValues returns the values of a JSON object in document order.
// Anything that is not an object yields no values.
func objectValues(raw json.RawMessage) ([]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var values []json.RawMessage
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
