package directory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thand-io/usermanager/internal/config"
	"github.com/thand-io/usermanager/internal/models"
)

const testToken = "test-token"

type recordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

type fakeDirectory struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
	delay    time.Duration
}

func (f *fakeDirectory) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method:   r.Method,
		Path:     r.URL.EscapedPath(),
		RawQuery: r.URL.RawQuery,
		Header:   r.Header.Clone(),
		Body:     body,
	})
	status, respBody, delay := f.status, f.body, f.delay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	if len(respBody) > 0 {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(respBody))
}

func (f *fakeDirectory) last(t *testing.T) recordedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests, "no request reached the directory")
	return f.requests[len(f.requests)-1]
}

func (f *fakeDirectory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// newTestClient starts a fake directory answering every request with
// status and body.
func newTestClient(t *testing.T, status int, body string) (*Client, *fakeDirectory) {
	t.Helper()

	fake := &fakeDirectory{status: status, body: body}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client, err := NewClient(config.DirectoryConfig{
		Domain:   "example.okta.com",
		APIToken: testToken,
		Timeout:  5 * time.Second,
	}, WithBaseURL(server.URL+"/api/v1/users"))
	require.NoError(t, err)

	return client, fake
}

func TestNewClient_BaseURLFromDomain(t *testing.T) {
	client, err := NewClient(config.DirectoryConfig{
		Domain:   "example.okta.com",
		APIToken: testToken,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://example.okta.com/api/v1/users", client.BaseURL())
}

func TestNewClient_MissingConfiguration(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.DirectoryConfig
		expected error
	}{
		{"missing domain", config.DirectoryConfig{APIToken: testToken}, config.ErrMissingDomain},
		{"missing token", config.DirectoryConfig{Domain: "example.okta.com"}, config.ErrMissingAPIToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg)
			assert.Nil(t, client)
			assert.ErrorIs(t, err, tt.expected)
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestNewClient_WithRestyClient(t *testing.T) {
	fake := &fakeDirectory{status: http.StatusOK, body: `[]`}
	server := httptest.NewServer(fake)
	defer server.Close()

	custom := resty.New().SetHeader("User-Agent", "usermanager-test")

	client, err := NewClient(config.DirectoryConfig{
		Domain:   "example.okta.com",
		APIToken: testToken,
	}, WithBaseURL(server.URL+"/api/v1/users"), WithRestyClient(custom))
	require.NoError(t, err)

	_, err = client.ListUsers(context.Background())
	require.NoError(t, err)

	req := fake.last(t)
	assert.Equal(t, "usermanager-test", req.Header.Get("User-Agent"))
	assert.Equal(t, "SSWS "+testToken, req.Header.Get("Authorization"))
}

func TestClient_HeadersOnEveryRequest(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		status int
		body   string
		call   func(c *Client) error
	}{
		{"list", http.StatusOK, `[]`, func(c *Client) error {
			_, err := c.ListUsers(ctx)
			return err
		}},
		{"create", http.StatusOK, `{"id":"00u1"}`, func(c *Client) error {
			_, err := c.CreateUser(ctx, models.CreateUserRequest{Email: "ada@x.com"})
			return err
		}},
		{"update", http.StatusOK, `{"id":"00u1"}`, func(c *Client) error {
			_, err := c.UpdateUser(ctx, "00u1", models.UserUpdate{})
			return err
		}},
		{"activate", http.StatusOK, `{"id":"00u1"}`, func(c *Client) error {
			_, err := c.ActivateUser(ctx, "00u1")
			return err
		}},
		{"deactivate", http.StatusOK, `{"id":"00u1"}`, func(c *Client) error {
			_, err := c.DeactivateUser(ctx, "00u1")
			return err
		}},
		{"assign", http.StatusOK, "", func(c *Client) error {
			return c.AssignUserToGroup(ctx, "00u1", "00g2")
		}},
		{"remove", http.StatusNoContent, "", func(c *Client) error {
			return c.RemoveUserFromGroup(ctx, "00u1", "00g2")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, fake := newTestClient(t, tt.status, tt.body)

			require.NoError(t, tt.call(client))

			req := fake.last(t)
			assert.Equal(t, "application/json", req.Header.Get("Accept"))
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			assert.Equal(t, "SSWS "+testToken, req.Header.Get("Authorization"))
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL + "/api/v1/users"
	server.Close()

	client, err := NewClient(config.DirectoryConfig{
		Domain:   "example.okta.com",
		APIToken: testToken,
	}, WithBaseURL(baseURL))
	require.NoError(t, err)

	_, err = client.ListUsers(context.Background())
	require.Error(t, err)

	_, isAPIError := StatusCode(err)
	assert.False(t, isAPIError, "transport failures carry no status")
}

func TestClient_ContextCancelled(t *testing.T) {
	client, fake := newTestClient(t, http.StatusOK, `[]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListUsers(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, fake.count())
}

func TestClient_Timeout(t *testing.T) {
	fake := &fakeDirectory{status: http.StatusOK, body: `[]`, delay: 500 * time.Millisecond}
	server := httptest.NewServer(fake)
	defer server.Close()

	client, err := NewClient(config.DirectoryConfig{
		Domain:   "example.okta.com",
		APIToken: testToken,
		Timeout:  50 * time.Millisecond,
	}, WithBaseURL(server.URL+"/api/v1/users"))
	require.NoError(t, err)

	_, err = client.ListUsers(context.Background())
	require.Error(t, err)
}

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		expected string
	}{
		{
			name: "directory error document",
			err: &APIError{
				Method:       http.MethodPost,
				URL:          "https://example.okta.com/api/v1/users",
				StatusCode:   http.StatusBadRequest,
				ErrorCode:    "E0000001",
				ErrorSummary: "Api validation failed: login",
				ErrorCauses:  []string{"login: An object with this field already exists"},
			},
			expected: "POST https://example.okta.com/api/v1/users returned status 400: Api validation failed: login (E0000001): login: An object with this field already exists",
		},
		{
			name: "plain body",
			err: &APIError{
				Method:     http.MethodGet,
				URL:        "https://example.okta.com/api/v1/users",
				StatusCode: http.StatusBadGateway,
				Body:       []byte("upstream unavailable\n"),
			},
			expected: "GET https://example.okta.com/api/v1/users returned status 502: upstream unavailable",
		},
		{
			name: "no body",
			err: &APIError{
				Method:     http.MethodDelete,
				URL:        "https://example.okta.com/api/v1/users/00u1/groups/00g2",
				StatusCode: http.StatusNotFound,
			},
			expected: "DELETE https://example.okta.com/api/v1/users/00u1/groups/00g2 returned status 404",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestStatusCode_Wrapped(t *testing.T) {
	err := fmt.Errorf("context: %w", &APIError{StatusCode: http.StatusUnauthorized})

	status, ok := StatusCode(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, status)

	_, ok = StatusCode(errors.New("boom"))
	assert.False(t, ok)
}
