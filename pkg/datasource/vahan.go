package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/regipulse/regipulse/pkg/registrations"
)

// DefaultVahanBaseURL is the public registration dashboard endpoint.
const DefaultVahanBaseURL = "https://vahan.parivahan.gov.in/vahan4dashboard"

// VahanClient fetches registration data from the upstream government
// dashboard. The dashboard has no stable public API; when the request fails
// or returns an unexpected payload the client falls back to the configured
// Fallback provider so the rest of the system keeps working.
type VahanClient struct {
	BaseURL    string
	StateCode  string
	From       time.Time
	To         time.Time
	HTTPClient *http.Client

	// Fallback serves the table when the upstream is unreachable.
	// Typically NewSynthetic(); nil disables the fallback.
	Fallback Provider
}

// NewVahanClient creates a client for the default dashboard endpoint with a
// synthetic fallback.
func NewVahanClient() *VahanClient {
	return &VahanClient{
		BaseURL:    DefaultVahanBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Fallback:   NewSynthetic(),
	}
}

// vahanRecord mirrors the dashboard's JSON row shape.
type vahanRecord struct {
	Date          string `json:"date"`
	VehicleClass  string `json:"vehicle_class"`
	Manufacturer  string `json:"manufacturer"`
	Registrations int64  `json:"registrations"`
}

// Fetch implements Provider.
func (c *VahanClient) Fetch(ctx context.Context) (registrations.Table, error) {
	table, err := c.fetchRemote(ctx)
	if err != nil {
		if c.Fallback != nil {
			return c.Fallback.Fetch(ctx)
		}
		return nil, err
	}
	return table, nil
}

func (c *VahanClient) fetchRemote(ctx context.Context) (registrations.Table, error) {
	endpoint, err := url.Parse(c.BaseURL + "/api/registrations")
	if err != nil {
		return nil, fmt.Errorf("bad base URL: %w", err)
	}

	params := endpoint.Query()
	params.Set("format", "json")
	if !c.From.IsZero() {
		params.Set("start_date", c.From.Format("2006-01-02"))
	}
	if !c.To.IsZero() {
		params.Set("end_date", c.To.Format("2006-01-02"))
	}
	if c.StateCode != "" {
		params.Set("state_code", c.StateCode)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch registrations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dashboard returned status %d", resp.StatusCode)
	}

	var records []vahanRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode registrations: %w", err)
	}

	raw := make(registrations.Table, 0, len(records))
	for _, r := range records {
		date, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			return nil, fmt.Errorf("bad date %q: %w", r.Date, err)
		}
		raw = append(raw, registrations.Event{
			Date:         date,
			Category:     registrations.Category(r.VehicleClass),
			Manufacturer: r.Manufacturer,
			Count:        r.Registrations,
		})
	}

	return registrations.Clean(raw), nil
}
