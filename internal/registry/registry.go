// Package registry resolves company registration dates for awarded bidders
// from an external company-registry service.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"
)

// Latvian register numbers: 11 digits starting with 4 or 5,
// e.g. 40003026637.
var regNumPattern = regexp.MustCompile(`^[45]\d{10}$`)

// ValidRegNum reports whether s looks like a registration number the
// registry can be queried for. Invalid numbers are never looked up.
func ValidRegNum(s string) bool {
	return regNumPattern.MatchString(s)
}

// Client looks up the registration date of a company by its registration
// number. The date is returned as DD.MM.YYYY; an empty string means the
// registry has no record for that number.
type Client interface {
	RegistrationDate(ctx context.Context, regNum string) (string, error)
}

// HTTPClient queries a registry HTTP endpoint.
type HTTPClient struct {
	baseURL  string
	user     string
	password string
	hc       *http.Client
}

func NewHTTPClient(baseURL, user, password string) *HTTPClient {
	return &HTTPClient{
		baseURL:  baseURL,
		user:     user,
		password: password,
		hc:       &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) RegistrationDate(ctx context.Context, regNum string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid registry url: %w", err)
	}
	q := u.Query()
	q.Set("reg_num", regNum)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build registry request: %w", err)
	}
	if c.user != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("registry lookup failed for %s: %w", regNum, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("registry lookup for %s returned status %d", regNum, resp.StatusCode)
	}

	var body struct {
		WinnerRegDate string `json:"winner_reg_date"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode registry response for %s: %w", regNum, err)
	}
	return body.WinnerRegDate, nil
}

// Noop is used when no registry endpoint is configured; every lookup
// resolves to an empty date.
type Noop struct{}

func (Noop) RegistrationDate(ctx context.Context, regNum string) (string, error) {
	return "", nil
}
