package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"
)

const (
	ConfigKind       = "Config"
	ConfigApiVersion = "kstate.dev/v1"

	DefaultEnvPrefix    = "K8S_AUTH"
	DefaultFieldManager = "kstate"
)

type Config struct {
	metav1.TypeMeta `json:",inline"`

	// EnvPrefix names the prefix of the environment variables consulted
	// by the auth resolver, e.g. K8S_AUTH for K8S_AUTH_HOST.
	EnvPrefix string `json:"envPrefix,omitempty"`

	// FieldManager sets the manager name recorded on written objects.
	FieldManager string `json:"fieldManager,omitempty"`

	// Auth holds default authentication fields applied underneath
	// explicit flags and environment variables.
	Auth *AuthDefaults `json:"auth,omitempty"`
}

// AuthDefaults carries the auth fields that may be persisted. Secrets
// (api_key, password) are deliberately not part of this file.
type AuthDefaults struct {
	Kubeconfig string `json:"kubeconfig,omitempty"`
	Context    string `json:"context,omitempty"`
	Host       string `json:"host,omitempty"`
	VerifySSL  *bool  `json:"verifySSL,omitempty"`
}

// NewConfig returns a config with default values.
func NewConfig() *Config {
	return &Config{
		TypeMeta: metav1.TypeMeta{
			Kind:       ConfigKind,
			APIVersion: ConfigApiVersion,
		},
		EnvPrefix:    DefaultEnvPrefix,
		FieldManager: DefaultFieldManager,
	}
}

// DefaultConfigPath returns '$HOME/.kstate/config'
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".kstate/config"), nil
}

// Read loads the config from the specified path,
// if the config file is not found, a default is returned.
func Read(configPath string) (*Config, error) {
	if configPath == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return nil, fmt.Errorf("$HOME dir can't be determined, error: %w", err)
		}
		configPath = p
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return NewConfig(), nil
	}

	cfgData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(cfgData, cfg); err != nil {
		return nil, err
	}

	if cfg.EnvPrefix == "" {
		cfg.EnvPrefix = DefaultEnvPrefix
	}

	if cfg.FieldManager == "" {
		cfg.FieldManager = DefaultFieldManager
	}

	return cfg, nil
}

// Write saves the config at the given path, if no path is specified
// it will create or override '$HOME/.kstate/config'.
func (c *Config) Write(configPath string) error {
	if configPath == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		configPath = p
	}

	if err := os.MkdirAll(filepath.Dir(configPath), os.FileMode(0755)); err != nil {
		return err
	}

	cfgData, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	if err := os.WriteFile(configPath, cfgData, os.FileMode(0666)); err != nil {
		return err
	}

	return nil
}
