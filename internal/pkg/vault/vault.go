// Package vault fetches database credentials from HashiCorp Vault.
package vault

import (
	"context"
	"fmt"

	vault "github.com/hashicorp/vault/api"

	"github.com/sota-olympics/sota-service/internal/pkg/logger"
)

// Config holds the Vault client settings.
type Config struct {
	Address   string
	Token     string
	Namespace string
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("vault address is required")
	}
	if c.Token == "" {
		return fmt.Errorf("vault token is required")
	}
	return nil
}

// Client wraps the Vault API client.
type Client struct {
	client *vault.Client
}

// NewClient creates a Vault client.
func NewClient(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid vault config: %w", err)
	}

	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	client.SetToken(cfg.Token)
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	return &Client{client: client}, nil
}

// GetDatabaseCredentials reads a username/password pair from the KV secret
// at the given path.
func (c *Client) GetDatabaseCredentials(ctx context.Context, path string) (username, password string, err error) {
	secret, err := c.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read secret at %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return "", "", fmt.Errorf("no secret found at %s", path)
	}

	data := secret.Data
	// KV v2 nests the payload under "data".
	if nested, ok := secret.Data["data"].(map[string]interface{}); ok {
		data = nested
	}

	username, _ = data["username"].(string)
	password, _ = data["password"].(string)
	if username == "" || password == "" {
		return "", "", fmt.Errorf("secret at %s is missing username or password", path)
	}

	logger.Debug(ctx, "database credentials loaded from vault",
		logger.Field("path", path),
	)

	return username, password, nil
}

// HealthCheck verifies the Vault server is reachable and unsealed.
func (c *Client) HealthCheck(ctx context.Context) error {
	health, err := c.client.Sys().HealthWithContext(ctx)
	if err != nil {
		return fmt.Errorf("vault health check failed: %w", err)
	}
	if health.Sealed {
		return fmt.Errorf("vault is sealed")
	}
	return nil
}
