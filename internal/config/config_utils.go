package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// applyFallbacks fills values that depend on other settings or on the host.
func (c *Config) applyFallbacks() {
	c.applyServerAPIKeyFallbacks()
	c.applyTLSDefaults()
	c.applyObservabilityDefaults()
}

// applyServerAPIKeyFallbacks reads a comma-separated key list from the
// environment, since viper does not split env values into slices.
func (c *Config) applyServerAPIKeyFallbacks() {
	if len(c.Server.APIKeys) > 0 {
		return
	}
	if apiKeysEnv := os.Getenv(EnvPrefix + "_SERVER_APIKEYS"); apiKeysEnv != "" {
		c.Server.APIKeys = splitList(apiKeysEnv)
	}
}

func (c *Config) applyTLSDefaults() {
	if c.Server.TLS.Mode == "mutual" && c.Server.TLS.ClientAuthPolicy == "" {
		c.Server.TLS.ClientAuthPolicy = "require"
	}
	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}
}

func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}
	if c.App.LogLevel == "debug" && !c.Observability.Console.Enabled {
		c.Observability.Console.Enabled = true
	}
}

// generateServiceInstanceID generates a service instance ID from the hostname
func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// logConfigurationSources logs a summary of the configuration sources in use
func (c *Config) logConfigurationSources(configFileUsed string) {
	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		EnvPrefix + "_SERVER_PORT",
		EnvPrefix + "_SERVER_HOST",
		EnvPrefix + "_SERVER_APIKEYS",
		EnvPrefix + "_APP_LOGLEVEL",
		EnvPrefix + "_SESSION_BACKEND",
		EnvPrefix + "_SESSION_REDIS_PASSWORD",
		EnvPrefix + "_VAULT_ENABLED",
		EnvPrefix + "_VAULT_TOKEN",
	}
	for _, envVar := range envVars {
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}
		if isSensitive(envVar) {
			value = "***MASKED***"
		}
		log.Printf("[CONFIG] env %s=%s", envVar, value)
	}

	log.Printf("[CONFIG] Server: %s:%s (TLS %s), session backend: %s, tika: %t, vault: %t",
		c.Server.Host, c.Server.Port, c.Server.TLS.Mode, c.Session.Backend,
		c.Document.Tika.Enabled, c.Vault.Enabled)
}

func isSensitive(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "key") ||
		strings.Contains(lower, "password") ||
		strings.Contains(lower, "token")
}
