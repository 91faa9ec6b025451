package config

import (
	"fmt"
	"strings"
	"time"
)

// Config represents the application configuration structure
type Config struct {
	Directory DirectoryConfig `mapstructure:"directory"`
	Users     UsersConfig     `mapstructure:"users"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// DirectoryConfig locates and authenticates against the directory service.
type DirectoryConfig struct {
	Domain   string        `mapstructure:"domain"`
	APIToken string        `mapstructure:"api_token"`
	Timeout  time.Duration `mapstructure:"timeout" default:"30s"`
}

// UsersConfig holds the defaults applied when creating users.
type UsersConfig struct {
	Activate  bool `mapstructure:"activate" default:"true"`
	SendEmail bool `mapstructure:"send_email" default:"false"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" default:"warn"`
	Format string `mapstructure:"format" default:"text"`
	Output string `mapstructure:"output" default:"stderr"`
}

// BaseURL returns the users collection URL for the configured domain.
func (d DirectoryConfig) BaseURL() string {
	return fmt.Sprintf("https://%s/api/v1/users", d.Domain)
}

// AuthorizationHeader returns the value sent in the Authorization header.
func (d DirectoryConfig) AuthorizationHeader() string {
	return fmt.Sprintf("SSWS %s", d.APIToken)
}

// Validate checks that everything needed to reach the directory is present.
func (c *Config) Validate() error {
	if len(strings.TrimSpace(c.Directory.Domain)) == 0 {
		return ErrMissingDomain
	}
	if len(strings.TrimSpace(c.Directory.APIToken)) == 0 {
		return ErrMissingAPIToken
	}
	return nil
}

// normalizeDomain reduces a domain given as a URL to its bare host.
func normalizeDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	return strings.TrimRight(domain, "/")
}
