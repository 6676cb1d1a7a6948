package common

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"snaporder/constants"
	"snaporder/internal/imgproc"
)

// Config holds all application configuration
type Config struct {
	Input      InputConfig             `yaml:"input" mapstructure:"input"`
	Output     OutputConfig            `yaml:"output" mapstructure:"output"`
	Processing ProcessingConfig        `yaml:"processing" mapstructure:"processing"`
	AI         AIConfig                `yaml:"ai" mapstructure:"ai"`
	OCR        OCRConfig               `yaml:"ocr" mapstructure:"ocr"`
	Features   FeatureConfig           `yaml:"features" mapstructure:"features"`
	Crops      []imgproc.CropStrategy  `yaml:"crop_strategies" mapstructure:"crop_strategies"`
}

// InputConfig holds input-side configuration
type InputConfig struct {
	Folder         string `yaml:"folder" mapstructure:"folder"`
	MaxImageSizeMB int    `yaml:"max_image_size_mb" mapstructure:"max_image_size_mb"`
	Watch          bool   `yaml:"watch" mapstructure:"watch"`
}

// OutputConfig holds output-side configuration
type OutputConfig struct {
	Path           string                 `yaml:"path" mapstructure:"path"`
	Format         constants.OutputFormat `yaml:"format" mapstructure:"format"`
	EnhancedFolder string                 `yaml:"enhanced_folder" mapstructure:"enhanced_folder"`
	IncludeRawText bool                   `yaml:"include_raw_text" mapstructure:"include_raw_text"`
	IncludeDebug   bool                   `yaml:"include_debug_info" mapstructure:"include_debug_info"`
}

// ProcessingConfig holds scheduling configuration
type ProcessingConfig struct {
	Parallel   bool `yaml:"parallel" mapstructure:"parallel"`
	MaxWorkers int  `yaml:"max_workers" mapstructure:"max_workers"`
}

// AIConfig holds vision-escalation configuration
type AIConfig struct {
	Mode        constants.AIMode     `yaml:"mode" mapstructure:"mode"`
	Provider    constants.AIProvider `yaml:"provider" mapstructure:"provider"`
	OllamaModel string               `yaml:"ollama_model" mapstructure:"ollama_model"`
	OllamaHost  string               `yaml:"ollama_host" mapstructure:"ollama_host"`
	OpenAIModel string               `yaml:"openai_model" mapstructure:"openai_model"`
	ClaudeModel string               `yaml:"claude_model" mapstructure:"claude_model"`
	GeminiModel string               `yaml:"gemini_model" mapstructure:"gemini_model"`
	MaxRetries  int                  `yaml:"max_retries" mapstructure:"max_retries"`
	Timeout     time.Duration        `yaml:"timeout" mapstructure:"timeout"`

	// Keys are resolved from the environment, never from the config file.
	OpenAIKey string `yaml:"-" mapstructure:"-"`
	ClaudeKey string `yaml:"-" mapstructure:"-"`
	GeminiKey string `yaml:"-" mapstructure:"-"`
}

// OCRConfig holds local text-recognition configuration
type OCRConfig struct {
	Tesseract           string  `yaml:"tesseract" mapstructure:"tesseract"` // binary name or absolute path; if empty -> "tesseract"
	Language            string  `yaml:"language" mapstructure:"language"`
	PSM                 int     `yaml:"psm" mapstructure:"psm"`
	OEM                 int     `yaml:"oem" mapstructure:"oem"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold" mapstructure:"confidence_threshold"` // 0-100
	UpscaleFactor       float64 `yaml:"upscale_factor" mapstructure:"upscale_factor"`
}

// FeatureConfig holds feature toggles
type FeatureConfig struct {
	DuplicateDetection bool `yaml:"duplicate_detection" mapstructure:"duplicate_detection"`
	Validation         bool `yaml:"validation" mapstructure:"validation"`
	SaveEnhanced       bool `yaml:"save_enhanced_images" mapstructure:"save_enhanced_images"`
	InteractiveReview  bool `yaml:"interactive_review" mapstructure:"interactive_review"`
	Analytics          bool `yaml:"analytics" mapstructure:"analytics"`

	// Aggressive disables the crop-search early exit so every strategy in the
	// catalog is scored. Changes output for borderline images; off by default
	// to match the fast path.
	Aggressive bool `yaml:"aggressive" mapstructure:"aggressive"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Folder:         "./screenshots",
			MaxImageSizeMB: 50,
		},
		Output: OutputConfig{
			Path:           "snaporder_orders.csv",
			Format:         constants.FormatCSV,
			EnhancedFolder: "snaporder_enhanced_images",
			IncludeRawText: true,
			IncludeDebug:   true,
		},
		Processing: ProcessingConfig{
			Parallel:   false,
			MaxWorkers: 4,
		},
		AI: AIConfig{
			Mode:        constants.AIModeNever,
			Provider:    constants.ProviderOllama,
			OllamaModel: "qwen2-vl:7b",
			OllamaHost:  "http://localhost:11434",
			OpenAIModel: "gpt-4o-mini",
			ClaudeModel: "claude-3-5-sonnet-20241022",
			GeminiModel: "gemini-1.5-flash",
			MaxRetries:  3,
			Timeout:     30 * time.Second,
		},
		OCR: OCRConfig{
			Tesseract:           "tesseract",
			Language:            "eng",
			PSM:                 6,
			OEM:                 3,
			ConfidenceThreshold: 70.0,
			UpscaleFactor:       2.0,
		},
		Features: FeatureConfig{
			DuplicateDetection: true,
			Validation:         true,
			SaveEnhanced:       true,
			Analytics:          true,
		},
		Crops: imgproc.DefaultCropStrategies(),
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file,
// and SNAPORDER_* environment overrides, in increasing precedence. Vendor API
// keys are always taken from their conventional environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("SNAPORDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(cfg.Crops) == 0 {
		cfg.Crops = imgproc.DefaultCropStrategies()
	}

	cfg.AI.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	cfg.AI.ClaudeKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.AI.GeminiKey = os.Getenv("GOOGLE_API_KEY")
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		cfg.AI.OllamaHost = host
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("input.folder", d.Input.Folder)
	v.SetDefault("input.max_image_size_mb", d.Input.MaxImageSizeMB)
	v.SetDefault("input.watch", d.Input.Watch)
	v.SetDefault("output.path", d.Output.Path)
	v.SetDefault("output.format", string(d.Output.Format))
	v.SetDefault("output.enhanced_folder", d.Output.EnhancedFolder)
	v.SetDefault("output.include_raw_text", d.Output.IncludeRawText)
	v.SetDefault("output.include_debug_info", d.Output.IncludeDebug)
	v.SetDefault("processing.parallel", d.Processing.Parallel)
	v.SetDefault("processing.max_workers", d.Processing.MaxWorkers)
	v.SetDefault("ai.mode", string(d.AI.Mode))
	v.SetDefault("ai.provider", string(d.AI.Provider))
	v.SetDefault("ai.ollama_model", d.AI.OllamaModel)
	v.SetDefault("ai.ollama_host", d.AI.OllamaHost)
	v.SetDefault("ai.openai_model", d.AI.OpenAIModel)
	v.SetDefault("ai.claude_model", d.AI.ClaudeModel)
	v.SetDefault("ai.gemini_model", d.AI.GeminiModel)
	v.SetDefault("ai.max_retries", d.AI.MaxRetries)
	v.SetDefault("ai.timeout", d.AI.Timeout)
	v.SetDefault("ocr.tesseract", d.OCR.Tesseract)
	v.SetDefault("ocr.language", d.OCR.Language)
	v.SetDefault("ocr.psm", d.OCR.PSM)
	v.SetDefault("ocr.oem", d.OCR.OEM)
	v.SetDefault("ocr.confidence_threshold", d.OCR.ConfidenceThreshold)
	v.SetDefault("ocr.upscale_factor", d.OCR.UpscaleFactor)
	v.SetDefault("features.duplicate_detection", d.Features.DuplicateDetection)
	v.SetDefault("features.validation", d.Features.Validation)
	v.SetDefault("features.save_enhanced_images", d.Features.SaveEnhanced)
	v.SetDefault("features.interactive_review", d.Features.InteractiveReview)
	v.SetDefault("features.analytics", d.Features.Analytics)
	v.SetDefault("features.aggressive", d.Features.Aggressive)
}

// WriteDefaultConfig writes the built-in configuration to path as YAML.
func WriteDefaultConfig(path string) error {
	out, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if !contains(constants.ValidAIModes, c.AI.Mode) {
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("invalid ai mode: %q", c.AI.Mode), ErrInvalidInput)
	}
	if !contains(constants.ValidProviders, c.AI.Provider) {
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("invalid ai provider: %q", c.AI.Provider), ErrInvalidInput)
	}
	if !contains(constants.ValidFormats, c.Output.Format) {
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("invalid output format: %q", c.Output.Format), ErrInvalidInput)
	}
	if c.OCR.ConfidenceThreshold < 0 || c.OCR.ConfidenceThreshold > 100 {
		return NewAppError("CONFIG_ERROR", "ocr confidence_threshold must be between 0 and 100", ErrInvalidInput)
	}
	if c.OCR.UpscaleFactor < 1.0 {
		return NewAppError("CONFIG_ERROR", "ocr upscale_factor must be >= 1.0", ErrInvalidInput)
	}
	if c.Processing.MaxWorkers < 1 {
		return NewAppError("CONFIG_ERROR", "processing max_workers must be >= 1", ErrInvalidInput)
	}
	if st, err := os.Stat(c.Input.Folder); err != nil || !st.IsDir() {
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("input folder not found: %s", c.Input.Folder), ErrInvalidInput)
	}
	return nil
}

func contains[T comparable](list []T, want T) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
