package config

import "fmt"

// ValidateTLSConfig validates the TLS configuration
func (c *Config) ValidateTLSConfig() error {
	tls := c.Server.TLS

	if err := validateTLSMode(tls); err != nil {
		return err
	}
	return validateTLSVersion(tls)
}

// validateTLSMode checks the files each mode needs
func validateTLSMode(tls TLSConfig) error {
	switch tls.Mode {
	case "disabled":
		return nil
	case "server":
		return validateCertAndKeyRequired(tls, "server mode")
	case "mutual":
		if err := validateCertAndKeyRequired(tls, "mutual mode"); err != nil {
			return err
		}
		if tls.CAFile == "" {
			return fmt.Errorf("caFile is required for mutual TLS mode")
		}
		return validateClientAuthPolicy(tls)
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", tls.Mode)
	}
}

func validateCertAndKeyRequired(tls TLSConfig, mode string) error {
	if tls.CertFile == "" || tls.KeyFile == "" {
		return fmt.Errorf("certFile and keyFile are required for %s", mode)
	}
	return nil
}

func validateClientAuthPolicy(tls TLSConfig) error {
	switch tls.ClientAuthPolicy {
	case "require", "request", "verify", "":
		return nil
	default:
		return fmt.Errorf("invalid clientAuthPolicy: %s (must be 'require', 'request', or 'verify')", tls.ClientAuthPolicy)
	}
}

func validateTLSVersion(tls TLSConfig) error {
	switch tls.MinVersion {
	case "", "1.2", "1.3":
		return nil
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", tls.MinVersion)
	}
}
