package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/payload-community/payload-go/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration.
type Config struct {
	Servers       map[string]*ServerConfig `json:"servers,omitempty"        yaml:"servers,omitempty"`
	CurrentServer string                   `json:"current_server,omitempty" yaml:"current_server,omitempty"`

	// Global settings
	Output string `json:"output" yaml:"output"`
}

// ServerConfig represents configuration for a single Payload server.
type ServerConfig struct {
	URL            string     `json:"url"                        yaml:"url"`
	APIKey         string     `json:"api_key,omitempty"          yaml:"api_key,omitempty"`
	Token          string     `json:"token,omitempty"            yaml:"token,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty" yaml:"token_expires_at,omitempty"`
	AuthCollection string     `json:"auth_collection,omitempty"  yaml:"auth_collection,omitempty"`
	Email          string     `json:"email,omitempty"            yaml:"email,omitempty"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage Payload CLI configuration including servers and settings",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			masked := *config
			masked.Servers = make(map[string]*ServerConfig, len(config.Servers))

			for name, server := range config.Servers {
				entry := *server
				if entry.APIKey != "" {
					entry.APIKey = constants.MaskedSecret
				}

				if entry.Token != "" {
					entry.Token = constants.MaskedSecret
				}

				masked.Servers[name] = &entry
			}

			return StandardYAMLRenderer(&masked)
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

Supported keys: url, api_key, token, auth_collection, output`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			config := loadConfig()

			switch key {
			case "output":
				config.Output = value
			case "url":
				server := currentServer(config, true)
				server.URL = value
			case "api_key":
				currentServer(config, true).APIKey = value
			case "token":
				currentServer(config, true).Token = value
			case "auth_collection":
				currentServer(config, true).AuthCollection = value
			default:
				return fmt.Errorf("unknown configuration key: %s", key)
			}

			return saveConfig(config)
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Unset a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			config := loadConfig()

			switch key {
			case "output":
				config.Output = ""
			case "api_key":
				currentServer(config, true).APIKey = ""
			case "token":
				server := currentServer(config, true)
				server.Token = ""
				server.TokenExpiresAt = nil
			case "auth_collection":
				currentServer(config, true).AuthCollection = ""
			default:
				return fmt.Errorf("unknown configuration key: %s", key)
			}

			return saveConfig(config)
		},
	}
}

// currentServer returns the active server entry, creating it when asked.
func currentServer(config *Config, create bool) *ServerConfig {
	if config.Servers == nil {
		config.Servers = make(map[string]*ServerConfig)
	}

	name := config.CurrentServer
	if name == "" {
		name = "default"
		config.CurrentServer = name
	}

	server, exists := config.Servers[name]
	if !exists {
		if !create {
			return nil
		}

		server = &ServerConfig{}
		config.Servers[name] = server
	}

	return server
}

func configFilePath() (string, error) {
	if file := viper.ConfigFileUsed(); file != "" {
		return file, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}

	return filepath.Join(home, ".payload", "config.yml"), nil
}

func loadConfig() *Config {
	config := &Config{}

	path, err := configFilePath()
	if err != nil {
		return config
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config
	}

	_ = yaml.Unmarshal(data, config)

	return config
}

func saveConfig(config *Config) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
