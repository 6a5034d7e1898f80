package config

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	once sync.Once
	cfg  *Config
)

// Config holds every tunable of the analysis service. Thresholds and limits
// that used to be inline magic numbers live here so tests can override them.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	LLM         LLMConfig         `yaml:"llm"`
	Translation TranslationConfig `yaml:"translation"`
	OCR         OCRConfig         `yaml:"ocr"`
	Extraction  ExtractionConfig  `yaml:"extraction"`
	Cache       CacheConfig       `yaml:"cache"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	MaxUploadBytes  int64         `yaml:"maxUploadBytes"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type LLMConfig struct {
	BaseURL        string        `yaml:"baseUrl"`
	APIKey         string        `yaml:"apiKey"`
	Model          string        `yaml:"model"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxPromptChars int           `yaml:"maxPromptChars"`
	Temperature    float64       `yaml:"temperature"`
}

type TranslationConfig struct {
	Endpoint string        `yaml:"endpoint"`
	APIKey   string        `yaml:"apiKey"`
	Timeout  time.Duration `yaml:"timeout"`
	// FailFast makes analysis translation atomic instead of
	// falling back to source-language values per field.
	FailFast        string `yaml:"failFast"`
	DefaultLanguage string `yaml:"defaultLanguage"`
}

type OCRConfig struct {
	Languages []string      `yaml:"languages"`
	Timeout   time.Duration `yaml:"timeout"`
}

type ExtractionConfig struct {
	// PDFMinChars and DOCXMinChars are deliberately different tolerances
	// for extraction noise per format; do not unify them.
	PDFMinChars  int `yaml:"pdfMinChars"`
	DOCXMinChars int `yaml:"docxMinChars"`
}

type CacheConfig struct {
	Backend   string        `yaml:"backend"` // "memory" or "redis"
	RedisAddr string        `yaml:"redisAddr"`
	RedisDB   int           `yaml:"redisDb"`
	RedisTTL  time.Duration `yaml:"redisTtl"` // 0 keeps entries forever
}

// Default returns the built-in configuration. Tests start from this and
// override individual fields.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			MaxUploadBytes:  50 * 1024 * 1024, // 50MB
			ShutdownTimeout: 5 * time.Second,
		},
		LLM: LLMConfig{
			BaseURL:        "https://api.openai.com/v1",
			Model:          "gpt-4o-mini",
			Timeout:        120 * time.Second,
			MaxPromptChars: 100000,
			Temperature:    0,
		},
		Translation: TranslationConfig{
			Endpoint:        "http://localhost:5000/translate",
			Timeout:         30 * time.Second,
			DefaultLanguage: "en",
		},
		OCR: OCRConfig{
			Languages: []string{"eng"},
			Timeout:   120 * time.Second,
		},
		Extraction: ExtractionConfig{
			PDFMinChars:  100,
			DOCXMinChars: 50,
		},
		Cache: CacheConfig{
			Backend:   "memory",
			RedisAddr: "localhost:6379",
		},
	}
}

// Get loads the configuration once per process: defaults, then the optional
// config.yaml next to the project root, then environment variables.
func Get() *Config {
	once.Do(func() {
		cfg = Default()

		_, filename, _, _ := runtime.Caller(0)
		rootDir := filepath.Dir(filepath.Dir(filename))
		if err := godotenv.Load(filepath.Join(rootDir, ".env")); err != nil {
			log.Printf("Warning: .env file not found, falling back to environment variables")
		}

		if data, err := os.ReadFile(filepath.Join(rootDir, "config.yaml")); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				log.Printf("Warning: ignoring malformed config.yaml: %v", err)
			}
		}

		applyEnv(cfg)
	})
	return cfg
}

func applyEnv(c *Config) {
	setString(&c.Server.Addr, "SERVER_ADDR")
	setInt64(&c.Server.MaxUploadBytes, "MAX_UPLOAD_BYTES")

	setString(&c.LLM.BaseURL, "LLM_BASE_URL")
	setString(&c.LLM.APIKey, "LLM_API_KEY")
	setString(&c.LLM.Model, "LLM_MODEL")
	setDuration(&c.LLM.Timeout, "LLM_TIMEOUT")
	setInt(&c.LLM.MaxPromptChars, "LLM_MAX_PROMPT_CHARS")

	setString(&c.Translation.Endpoint, "TRANSLATE_ENDPOINT")
	setString(&c.Translation.APIKey, "TRANSLATE_API_KEY")
	setDuration(&c.Translation.Timeout, "TRANSLATE_TIMEOUT")
	setString(&c.Translation.FailFast, "TRANSLATE_FAIL_FAST")
	setString(&c.Translation.DefaultLanguage, "DEFAULT_LANGUAGE")

	if v := os.Getenv("OCR_LANGUAGES"); v != "" {
		c.OCR.Languages = strings.Split(v, ",")
	}
	setDuration(&c.OCR.Timeout, "OCR_TIMEOUT")

	setInt(&c.Extraction.PDFMinChars, "PDF_MIN_CHARS")
	setInt(&c.Extraction.DOCXMinChars, "DOCX_MIN_CHARS")

	setString(&c.Cache.Backend, "CACHE_BACKEND")
	setString(&c.Cache.RedisAddr, "REDIS_ADDR")
	setInt(&c.Cache.RedisDB, "REDIS_DB")
	setDuration(&c.Cache.RedisTTL, "REDIS_TTL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
