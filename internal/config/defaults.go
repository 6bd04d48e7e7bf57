package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 10*1024*1024) // 10MB, PDFs are larger than plain text

	// Extraction
	v.SetDefault("extraction.blobLineThreshold", 3)
	v.SetDefault("extraction.skillSupplementThreshold", 5)
	v.SetDefault("extraction.vocabularyFile", "")
	v.SetDefault("extraction.watchVocabulary", false)
	v.SetDefault("extraction.watchDebounce", 500*time.Millisecond)

	// Document extraction
	v.SetDefault("document.tika.enabled", false)
	v.SetDefault("document.tika.url", "http://localhost:9998")
	v.SetDefault("document.tika.timeout", 30*time.Second)
	v.SetDefault("document.tika.circuitBreaker.enabled", true)
	v.SetDefault("document.tika.circuitBreaker.maxRequests", 3)
	v.SetDefault("document.tika.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("document.tika.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("document.tika.circuitBreaker.minRequests", 3)
	v.SetDefault("document.tika.circuitBreaker.failureThreshold", 0.6)

	// Session
	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.redis.addr", "localhost:6379")
	v.SetDefault("session.redis.password", "")
	v.SetDefault("session.redis.db", 0)
	v.SetDefault("session.redis.key", "resumeparser:session:current")
	v.SetDefault("session.redis.ttl", 24*time.Hour)
	v.SetDefault("session.redis.tracing", false)

	// Server
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.maxRequestSize", 10*1024*1024)
	v.SetDefault("server.apiKeys", []string{})
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.uploadRequestsPerMin", 10)
	v.SetDefault("server.rateLimit.uploadBurstCapacity", 2)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.tls.mode", "disabled")
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	v.SetDefault("server.tls.caFile", "")
	v.SetDefault("server.tls.minVersion", "1.2")
	v.SetDefault("server.tls.clientAuthPolicy", "require")

	// Vault
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.redisPassword", "")

	// Observability
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "resumeparser")
	v.SetDefault("observability.serviceVersion", "") // app version when empty
	v.SetDefault("observability.serviceInstance", "")
	v.SetDefault("observability.sampleRate", 1.0)
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)
	v.SetDefault("observability.prometheus.enabled", false)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
}
