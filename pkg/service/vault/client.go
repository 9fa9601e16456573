package vault

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
	"github.com/secmon-lab/mnemosyne/pkg/domain/types"
	"github.com/secmon-lab/mnemosyne/pkg/utils/safe"
)

// Client replicates memory payloads to a hosted secret-store API. It is
// the one-shot side-effecting collaborator of the pipeline: no state,
// no retries, the caller decides whether to await the result.
type Client struct {
	httpClient *http.Client
	baseURL    string
	appID      string
	userSeed   string
	secretName string
}

var _ interfaces.Vault = &Client{}

// Option is a functional option for Client configuration
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, mainly for tests
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a secret-store client. All of base URL, app ID, user seed
// and secret name are required by the store's API.
func New(baseURL, appID, userSeed, secretName string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, goerr.New("vault base URL is required")
	}
	if appID == "" {
		return nil, goerr.New("vault app ID is required")
	}
	if userSeed == "" {
		return nil, goerr.New("vault user seed is required")
	}
	if secretName == "" {
		return nil, goerr.New("vault secret name is required")
	}

	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		appID:      appID,
		userSeed:   userSeed,
		secretName: secretName,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

type storeRequest struct {
	Secret      storeSecret      `json:"secret"`
	Permissions storePermissions `json:"permissions"`
}

type storeSecret struct {
	UserSeed   string `json:"nillion_seed"`
	SecretName string `json:"secret_name"`
	// The store expects the payload as a JSON-encoded string, not an
	// embedded object
	SecretValue string `json:"secret_value"`
}

type storePermissions struct {
	Retrieve []string       `json:"retrieve"`
	Update   []string       `json:"update"`
	Delete   []string       `json:"delete"`
	Compute  map[string]any `json:"compute"`
}

// defaultPermissions grants no delegated access; only the owning seed can
// read the replica
func defaultPermissions() storePermissions {
	return storePermissions{
		Retrieve: []string{},
		Update:   []string{},
		Delete:   []string{},
		Compute:  map[string]any{},
	}
}

type storeResponse struct {
	StoreID string `json:"store_id"`
}

// Replicate stores the full memory payload as a secret scoped to the
// owner and returns the store ID assigned by the service
func (c *Client) Replicate(ctx context.Context, uid types.UserID, memory *model.Memory) (string, error) {
	payload, err := json.Marshal(memory)
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal memory payload")
	}

	body, err := json.Marshal(storeRequest{
		Secret: storeSecret{
			UserSeed:    c.userSeed,
			SecretName:  fmt.Sprintf("%s_%s_%d", c.secretName, uid, memory.ID),
			SecretValue: string(payload),
		},
		Permissions: defaultPermissions(),
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal store request")
	}

	url := fmt.Sprintf("%s/api/apps/%s/secrets", c.baseURL, c.appID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", goerr.Wrap(err, "failed to build store request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to call secret store", goerr.V("uid", uid), goerr.V("memoryID", memory.ID))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", goerr.New("secret store returned error status",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(respBody)),
		)
	}

	var stored storeResponse
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		return "", goerr.Wrap(err, "failed to decode store response")
	}

	return stored.StoreID, nil
}
