package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Feature names.
const (
	Punctuate = "punctuate"
	Split     = "split"
	Summarize = "summarize"
	Cosmetic  = "cosmetic"
)

// Features lists every feature in menu order.
var Features = []string{Punctuate, Split, Summarize, Cosmetic}

// FeatureSettings holds the per-feature knobs.
type FeatureSettings struct {
	ChunkSize int    `json:"chunk_size"`
	Prompt    string `json:"prompt"` // overrides the built-in prompt when set
}

// DictEntry is one cosmetic normalization mapping.
type DictEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Config struct {
	Port string

	// Auth
	APIKey string

	// Documents
	DocRoot   string
	BackupDir string
	Backup    bool
	TraceDir  string

	// Transform provider
	Provider        string
	Model           string
	AnthropicAPIKey string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OllamaBaseURL   string
	GeminiAPIKey    string
	LLMTimeout      time.Duration
	Temperature     float64
	TopP            float64

	// Processing
	PreserveHeadings   bool
	Punctuate          FeatureSettings
	Split              FeatureSettings
	Summarize          FeatureSettings
	Cosmetic           FeatureSettings
	CosmeticDictionary []DictEntry
	MaxIterations      int
	RetryBackoff       time.Duration

	// Job queue
	MaxQueueSize int
	JobTTL       time.Duration

	// Upload limits
	MaxUploadBytes int64

	// PDF
	PDFFallbackPdftotext bool

	// JSONC settings file overlaid on top of the environment.
	SettingsPath string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("DOCTRANSFORM_API_KEY"),

		DocRoot:   envOr("DOC_ROOT", "."),
		BackupDir: os.Getenv("BACKUP_DIR"),
		Backup:    envBool("BACKUP", true),
		TraceDir:  os.Getenv("TRACE_DIR"),

		Provider:        strings.ToLower(envOr("LLM_PROVIDER", "anthropic")),
		Model:           os.Getenv("LLM_MODEL"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   envOr("OPENAI_BASE_URL", "https://api.openai.com"),
		OllamaBaseURL:   envOr("OLLAMA_BASE_URL", "http://localhost:11434"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		LLMTimeout:      envDuration("LLM_TIMEOUT", 120*time.Second),
		Temperature:     envFloat("LLM_TEMPERATURE", 0.1),
		TopP:            envFloat("LLM_TOP_P", 0.7),

		PreserveHeadings: envBool("PRESERVE_HEADINGS", true),
		Punctuate:        FeatureSettings{ChunkSize: envInt("PUNCTUATE_CHUNK_SIZE", 1000)},
		Split:            FeatureSettings{ChunkSize: envInt("SPLIT_CHUNK_SIZE", 1000)},
		Summarize:        FeatureSettings{ChunkSize: envInt("SUMMARIZE_CHUNK_SIZE", 5000)},
		Cosmetic:         FeatureSettings{ChunkSize: envInt("COSMETIC_CHUNK_SIZE", 1000)},
		MaxIterations:    envInt("MAX_ITERATIONS", 100),
		RetryBackoff:     envDuration("RETRY_BACKOFF", 2*time.Second),

		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),
		JobTTL:       envDuration("JOB_TTL", 1*time.Hour),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		SettingsPath: os.Getenv("DOCTRANSFORM_SETTINGS"),
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Punctuate.ChunkSize <= 0 {
		c.Punctuate.ChunkSize = 1000
	}
	if c.Split.ChunkSize <= 0 {
		c.Split.ChunkSize = 1000
	}
	if c.Summarize.ChunkSize <= 0 {
		c.Summarize.ChunkSize = 5000
	}
	if c.Cosmetic.ChunkSize <= 0 {
		c.Cosmetic.ChunkSize = 1000
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = 100
	}
	if c.RetryBackoff < 0 {
		c.RetryBackoff = 0
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = 100
	}
	if c.JobTTL <= 0 {
		c.JobTTL = 1 * time.Hour
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 52428800
	}
	if c.LLMTimeout <= 0 {
		c.LLMTimeout = 120 * time.Second
	}
}

// Feature returns the settings of the named feature.
func (c Config) Feature(name string) (FeatureSettings, bool) {
	switch name {
	case Punctuate:
		return c.Punctuate, true
	case Split:
		return c.Split, true
	case Summarize:
		return c.Summarize, true
	case Cosmetic:
		return c.Cosmetic, true
	}
	return FeatureSettings{}, false
}

// ValidateProvider checks that the selected provider has what it needs to
// make a call. It runs before any document is touched.
func (c Config) ValidateProvider() error {
	switch c.Provider {
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required")
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required")
		}
	case "ollama":
		if c.OllamaBaseURL == "" {
			return fmt.Errorf("OLLAMA_BASE_URL is required")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.Provider)
	}
	return nil
}

// Validate checks the configuration needed to serve the HTTP API.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DOCTRANSFORM_API_KEY is required")
	}
	return c.ValidateProvider()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
