package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"codeberg.org/weconnect/server/weconnect/materials"
	"codeberg.org/weconnect/server/weconnect/users"
)

const restRequestTimeout = 30 * time.Second

// manages HTTP requests to the server's REST API. It doubles as the
// dashboard's record source: FetchAll satisfies dashboard.RecordSource.
type RESTClient struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// creates a new REST client; the JWT comes from WECONNECT_TOKEN
func NewRESTClient() *RESTClient {
	endpoint := os.Getenv("WECONNECT_API_ENDPOINT")
	if endpoint == "" {
		endpoint = "http://localhost:8080"
	}

	return &RESTClient{
		endpoint: endpoint,
		token:    os.Getenv("WECONNECT_TOKEN"),
		httpClient: &http.Client{
			Timeout: restRequestTimeout,
		},
	}
}

// returns the authenticated user's profile
func (c *RESTClient) Me(ctx context.Context) (*users.Profile, error) {
	var resp struct {
		User *users.Profile `json:"user"`
	}

	if err := c.get(ctx, "/api/v1/auth/me", &resp); err != nil {
		return nil, err
	}

	return resp.User, nil
}

// returns all of the authenticated user's materials, newest first
func (c *RESTClient) FetchAll(ctx context.Context, _ string) ([]materials.MaterialRecord, error) {
	var resp struct {
		Materials []materials.MaterialRecord `json:"materials"`
	}

	if err := c.get(ctx, "/api/v1/materials", &resp); err != nil {
		return nil, err
	}

	return resp.Materials, nil
}

func (c *RESTClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}

		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("%s: %s", errResp.Error, errResp.Message)
		}

		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
