// Package registry is the client of the CNPJá company registry.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/entity"
	"backoffice/internal/domain/company"
	"backoffice/pkg/logger"
)

const maxBodyBytes = 1 << 20

// Config configures the client.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client implements company.Registry against GET {base}/office/{cnpj}.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

var _ company.Registry = (*Client)(nil)

// New creates a registry client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Lookup fetches the office registered under the CNPJ digits in document.
// Every failure, including a non-200 answer, is ENRICHMENT_UNAVAILABLE.
func (c *Client) Lookup(ctx context.Context, document string) (*company.Profile, error) {
	endpoint := c.baseURL + "/office/" + url.PathEscape(document)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperror.NewEnrichmentUnavailable(0, err)
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.NewEnrichmentUnavailable(0, err)
	}
	defer resp.Body.Close()

	logger.Debug(ctx, "registry lookup", "document", document, "status", resp.StatusCode, "latency", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperror.NewEnrichmentUnavailable(resp.StatusCode,
			fmt.Errorf("registry answered %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var office officeResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&office); err != nil {
		return nil, apperror.NewEnrichmentUnavailable(resp.StatusCode, fmt.Errorf("decode registry response: %w", err))
	}
	return office.profile(), nil
}

type text struct {
	Text string `json:"text"`
}

type officeResponse struct {
	TaxID   string  `json:"taxId"`
	Alias   *string `json:"alias"`
	Founded string  `json:"founded"`
	Head    bool    `json:"head"`
	Status  text    `json:"status"`
	Company struct {
		Name    string           `json:"name"`
		Equity  *decimal.Decimal `json:"equity"`
		Size    text             `json:"size"`
		Members []struct {
			Since  string `json:"since"`
			Role   text   `json:"role"`
			Person struct {
				Name  string  `json:"name"`
				TaxID string  `json:"taxId"`
				Age   *string `json:"age"`
			} `json:"person"`
		} `json:"members"`
	} `json:"company"`
	Address struct {
		Street   string  `json:"street"`
		Number   string  `json:"number"`
		Details  *string `json:"details"`
		District string  `json:"district"`
		City     string  `json:"city"`
		State    string  `json:"state"`
		Zip      string  `json:"zip"`
		Country  struct {
			Name string `json:"name"`
		} `json:"country"`
	} `json:"address"`
	Phones []struct {
		Area   string `json:"area"`
		Number string `json:"number"`
	} `json:"phones"`
	Emails []struct {
		Address string `json:"address"`
	} `json:"emails"`
	MainActivity   *text  `json:"mainActivity"`
	SideActivities []text `json:"sideActivities"`
}

func (o *officeResponse) profile() *company.Profile {
	p := &company.Profile{
		TaxID:  o.TaxID,
		Name:   o.Company.Name,
		Alias:  o.Alias,
		Head:   o.Head,
		Status: o.Status.Text,
		Equity: o.Company.Equity,
		Size:   o.Company.Size.Text,
		Address: entity.Address{
			Street:     o.Address.Street,
			Number:     o.Address.Number,
			Complement: o.Address.Details,
			District:   o.Address.District,
			City:       o.Address.City,
			State:      o.Address.State,
			Zip:        o.Address.Zip,
			Country:    o.Address.Country.Name,
		},
		Founded:        parseDate(o.Founded),
		SideActivities: make([]string, 0, len(o.SideActivities)),
	}
	if o.MainActivity != nil {
		main := o.MainActivity.Text
		p.MainActivity = &main
	}
	for _, a := range o.SideActivities {
		p.SideActivities = append(p.SideActivities, a.Text)
	}
	if len(o.Phones) > 0 {
		p.Phone = fmt.Sprintf("(%s) %s", o.Phones[0].Area, o.Phones[0].Number)
	}
	if len(o.Emails) > 0 && o.Emails[0].Address != "" {
		email := o.Emails[0].Address
		p.Email = &email
	}
	for _, m := range o.Company.Members {
		p.Members = append(p.Members, company.Member{
			Name:     m.Person.Name,
			TaxID:    strings.ReplaceAll(m.Person.TaxID, "*", ""),
			Role:     m.Role.Text,
			Since:    parseDate(m.Since),
			AgeRange: m.Person.Age,
		})
	}
	return p
}

// parseDate reads YYYY-MM-DD; anything else is treated as unknown.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil
	}
	return &t
}
