// Package servicenow reads update sets through the ServiceNow Table API.
package servicenow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/conn-castle/snset/internal/credentials"
	"github.com/conn-castle/snset/internal/messages"
	"github.com/conn-castle/snset/internal/updateset"
)

// Defaults used when Options leaves a field empty.
const (
	DefaultBaseURL         = "https://%s.service-now.com"
	DefaultTimestampLayout = "2006-01-02 15:04:05"
	DefaultTimeout         = 30 * time.Second
)

// Table names.
const (
	TableUpdateSet       = "sys_update_set"
	TableRemoteUpdateSet = "sys_remote_update_set"
)

const maxErrorBody = 64 << 10

// Options configures a Client.
type Options struct {
	// Instances is the allow-list of instance names.
	Instances []string
	// BaseURL is a format string with one %s for the instance name.
	BaseURL         string
	Credentials     credentials.Credentials
	HTTPClient      *http.Client
	TimestampLayout string
	// Log receives progress warnings; nil discards them.
	Log io.Writer
}

// Client talks to the Table API of the allowed instances.
type Client struct {
	instances []string
	baseURL   string
	creds     credentials.Credentials
	http      *http.Client
	layout    string
	log       io.Writer
}

// NewClient returns a Client for opts.
func NewClient(opts Options) *Client {
	c := &Client{
		instances: slices.Clone(opts.Instances),
		baseURL:   opts.BaseURL,
		creds:     opts.Credentials,
		http:      opts.HTTPClient,
		layout:    opts.TimestampLayout,
		log:       opts.Log,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: DefaultTimeout}
	}
	if c.layout == "" {
		c.layout = DefaultTimestampLayout
	}
	if c.log == nil {
		c.log = io.Discard
	}
	return c
}

// ValidateInstance checks instance against the allow-list.
func (c *Client) ValidateInstance(instance string) error {
	if slices.Contains(c.instances, instance) {
		return nil
	}
	return fmt.Errorf(messages.ServiceNowInvalidInstanceFmt, ErrInvalidInstance, instance, strings.Join(c.instances, ", "))
}

// TableURL returns the Table API endpoint of table on instance.
func (c *Client) TableURL(instance string, table string) string {
	return fmt.Sprintf(c.baseURL, instance) + "/api/now/table/" + table
}

// Fetch issues a GET against uri and returns the decoded result list.
// Credentials are checked before any request is made. Non-2xx responses
// return a *StatusError.
func (c *Client) Fetch(ctx context.Context, uri string, params url.Values) ([]updateset.Record, error) {
	if err := c.creds.Validate(); err != nil {
		return nil, err
	}

	target := uri
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf(messages.ServiceNowCreateRequestErrFmt, uri, err)
	}
	req.SetBasicAuth(c.creds.User, c.creds.Password)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "snset")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf(messages.ServiceNowRequestErrFmt, uri, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        uri,
			Message:    errorMessage(body),
		}
	}

	var payload struct {
		Result []updateset.Record `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf(messages.ServiceNowDecodeErrFmt, uri, err)
	}
	return payload.Result, nil
}

// CompleteUpdateSets returns the name of every complete update set on instance.
func (c *Client) CompleteUpdateSets(ctx context.Context, instance string) ([]updateset.Record, error) {
	if err := c.ValidateInstance(instance); err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("sysparm_query", "state=complete")
	params.Set("sysparm_fields", "name")
	return c.Fetch(ctx, c.TableURL(instance, TableUpdateSet), params)
}
