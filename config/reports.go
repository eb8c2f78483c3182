package config

import (
	"strings"
	"time"
)

// RendererConfig controls the headless Chrome PDF converter.
type RendererConfig struct {
	// ChromePath overrides Chrome discovery.
	ChromePath string        `env:"RENDERER_CHROME_PATH"`
	Timeout    time.Duration `env:"RENDERER_TIMEOUT"     envDefault:"30s"`
	// PaperSize is one of a4, letter, legal.
	PaperSize string `env:"RENDERER_PAPER_SIZE" envDefault:"a4"`
}

// Sanitize applies guardrails to renderer configuration values.
func (c *RendererConfig) Sanitize() {
	c.ChromePath = strings.TrimSpace(c.ChromePath)
	if c.Timeout < time.Second {
		c.Timeout = time.Second
	}
	c.PaperSize = strings.ToLower(strings.TrimSpace(c.PaperSize))
	switch c.PaperSize {
	case "a4", "letter", "legal":
	default:
		c.PaperSize = "a4"
	}
}

// StorageConfig controls where generated documents are written.
type StorageConfig struct {
	ArtifactDir string `env:"STORAGE_ARTIFACT_DIR" envDefault:"./artifacts"`
}

// Sanitize applies guardrails to storage configuration values.
func (c *StorageConfig) Sanitize() {
	if c.ArtifactDir = strings.TrimSpace(c.ArtifactDir); c.ArtifactDir == "" {
		c.ArtifactDir = "./artifacts"
	}
}

// NotificationStreamConfig controls the Redis stream that receives delivery intents.
type NotificationStreamConfig struct {
	Stream string `env:"NOTIFICATIONS_STREAM"        envDefault:"reports:notifications"`
	MaxLen int64  `env:"NOTIFICATIONS_STREAM_MAXLEN" envDefault:"100000"`
}

// Sanitize applies guardrails to notification stream configuration values.
func (c *NotificationStreamConfig) Sanitize() {
	if c.Stream = strings.TrimSpace(c.Stream); c.Stream == "" {
		c.Stream = "reports:notifications"
	}
	if c.MaxLen < 1000 {
		c.MaxLen = 1000
	}
}
