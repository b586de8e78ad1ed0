// Package config provides centralized configuration management for the application.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration parameters for the application.
type Config struct {
	Jira     JiraConfig
	Metadata MetadataConfig
	LogLevel string
}

// JiraConfig holds JIRA specific configuration.
type JiraConfig struct {
	URL      string
	Username string
	Token    string

	// Timeout bounds each HTTP call. Zero means no timeout.
	Timeout time.Duration
}

// MetadataConfig points at an optional class catalog overriding the built-in one.
type MetadataConfig struct {
	File string
}

// LoadConfig initializes and loads configuration from environment variables
// and, when configFile is not empty, from that file. Environment variables
// take precedence over the file.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("log.level", "info")
	v.SetDefault("jira.timeout", "0s")

	// Map specific environment variables
	v.BindEnv("jira.url", "JIRA_URL")
	v.BindEnv("jira.username", "JIRA_USERNAME")
	v.BindEnv("jira.token", "JIRA_TOKEN")
	v.BindEnv("jira.timeout", "JIRA_TIMEOUT")
	v.BindEnv("metadata.file", "SPECIF_METADATA_FILE")
	v.BindEnv("log.level", "LOG_LEVEL")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	config := &Config{
		Jira: JiraConfig{
			URL:      strings.TrimSuffix(v.GetString("jira.url"), "/"),
			Username: v.GetString("jira.username"),
			Token:    v.GetString("jira.token"),
			Timeout:  v.GetDuration("jira.timeout"),
		},
		Metadata: MetadataConfig{
			File: v.GetString("metadata.file"),
		},
		LogLevel: strings.ToLower(v.GetString("log.level")),
	}

	if config.Jira.Timeout < 0 {
		return nil, fmt.Errorf("invalid JIRA_TIMEOUT: %s", config.Jira.Timeout)
	}

	return config, nil
}

// ValidateJiraConfig validates JIRA-specific configuration. The username is
// optional: without it the token is used as a personal access token.
func ValidateJiraConfig(config *Config) error {
	var missingVars []string

	if config.Jira.URL == "" {
		missingVars = append(missingVars, "JIRA_URL")
	}
	if config.Jira.Token == "" {
		missingVars = append(missingVars, "JIRA_TOKEN")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missingVars)
	}

	return nil
}
