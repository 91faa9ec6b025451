// Package directory is a client for the users collection of an Okta style
// directory management API.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/thand-io/usermanager/internal/common"
	"github.com/thand-io/usermanager/internal/config"
	"github.com/thand-io/usermanager/internal/models"
)

const contentTypeJSON = "application/json"

// Client talks to the users collection. Each call is one request with no
// retries and no pagination.
type Client struct {
	client  *resty.Client
	baseURL string
}

type Option func(*Client)

// WithBaseURL overrides the users collection URL derived from the domain.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithRestyClient replaces the underlying HTTP client.
func WithRestyClient(client *resty.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates a client for the configured directory.
func NewClient(cfg config.DirectoryConfig, opts ...Option) (*Client, error) {
	if len(cfg.Domain) == 0 {
		return nil, config.ErrMissingDomain
	}
	if len(cfg.APIToken) == 0 {
		return nil, config.ErrMissingAPIToken
	}

	c := &Client{
		client:  resty.New(),
		baseURL: cfg.BaseURL(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.client.
		SetHeader("Accept", contentTypeJSON).
		SetHeader("Content-Type", contentTypeJSON).
		SetHeader("Authorization", cfg.AuthorizationHeader()).
		SetLogger(logrus.StandardLogger())

	if cfg.Timeout > 0 {
		c.client.SetTimeout(cfg.Timeout)
	}

	logrus.WithField("base_url", c.baseURL).Debug("Created directory client")

	return c, nil
}

// BaseURL returns the users collection URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) userURL(userID string, segments ...string) string {
	parts := append([]string{url.PathEscape(userID)}, segments...)
	return common.JoinURL(c.baseURL, parts...)
}

func (c *Client) membershipURL(userID, groupID string) string {
	return c.userURL(userID, "groups", url.PathEscape(groupID))
}

// do sends a single request. Only transport failures are returned as
// errors; status handling is left to the caller.
func (c *Client) do(ctx context.Context, method, endpoint string, body any, query map[string]string) (*resty.Response, error) {
	req := c.client.R().SetContext(ctx)

	if body != nil {
		req.SetBody(body)
	}

	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	startTime := time.Now()
	resp, err := common.MakeRequestFromBuilder(req, method, endpoint)

	fields := logrus.Fields{
		"method":  method,
		"url":     endpoint,
		"elapsed": time.Since(startTime),
	}

	if err != nil {
		logrus.WithFields(fields).WithError(err).Warn("Directory request failed")
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}

	fields["status"] = resp.StatusCode()
	logrus.WithFields(fields).Debug("Directory request completed")

	return resp, nil
}

// expectSuccess turns any non 2xx response into an APIError.
func expectSuccess(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	return newAPIError(resp)
}

// expectStatus turns any response other than status into an APIError.
func expectStatus(resp *resty.Response, status int) error {
	if resp.StatusCode() == status {
		return nil
	}
	return newAPIError(resp)
}

func decodeUser(resp *resty.Response) (*models.User, error) {
	var user models.User
	if err := json.Unmarshal(resp.Body(), &user); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}
	return &user, nil
}
