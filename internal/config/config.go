package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"kiameta/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	S3       S3Config
	DocAI    DocAIConfig
	Gemini   GeminiConfig
	Metadata MetadataConfig
	Input    InputConfig
	Output   OutputConfig
	Video    VideoConfig
	Log      LogConfig
}

// S3Config holds object storage settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// DocAIConfig holds document-understanding service settings.
type DocAIConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	ProcessorID      string `mapstructure:"processor_id"`
	APIKey           string `mapstructure:"api_key"`
	SyncMaxBytes     int64  `mapstructure:"sync_max_bytes"`
	PollIntervalSecs int    `mapstructure:"poll_interval_secs"`
	PollTimeoutSecs  int    `mapstructure:"poll_timeout_secs"`
	TimeoutSecs      int    `mapstructure:"timeout_secs"`
}

// GeminiConfig holds generative structured-extraction service settings.
type GeminiConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// MetadataConfig selects the metadata extractor variant.
type MetadataConfig struct {
	Extractor string `mapstructure:"extractor"` // "rules" or "gemini"
}

// InputConfig holds the source specification. Precedence at resolution time:
// explicit path > folder URI > bucket(+prefix).
type InputConfig struct {
	Path   string `mapstructure:"path"`   // s3://bucket/key, single object
	Folder string `mapstructure:"folder"` // s3://bucket/prefix/, may end in *
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
}

// OutputConfig holds artifact destination settings.
type OutputConfig struct {
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	AppendKey string `mapstructure:"append_key"` // existing artifact to merge into
}

// VideoConfig holds video platform settings.
type VideoConfig struct {
	APIKey            string `mapstructure:"api_key"`
	TranscriptSaveKey string `mapstructure:"transcript_save_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Verbose bool `mapstructure:"verbose"`
}

// Load reads configuration from environment variables with the KIAMETA_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("KIAMETA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// S3 defaults
	v.SetDefault("s3.region", "ap-northeast-2")
	v.SetDefault("s3.endpoint", "")

	// Document-understanding service defaults. The sync ceiling tracks the
	// service's process quota and is configuration, not a constant.
	v.SetDefault("docai.sync_max_bytes", 20*1024*1024)
	v.SetDefault("docai.poll_interval_secs", 10)
	v.SetDefault("docai.poll_timeout_secs", 600)
	v.SetDefault("docai.timeout_secs", 120)

	// Gemini defaults
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.timeout_secs", 120)

	// Metadata defaults
	v.SetDefault("metadata.extractor", "rules")

	// Output defaults
	v.SetDefault("output.prefix", "output/metadata/")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"s3.region":                 "KIAMETA_S3_REGION",
		"s3.endpoint":               "KIAMETA_S3_ENDPOINT",
		"s3.access_key":             "KIAMETA_S3_ACCESS_KEY",
		"s3.secret_key":             "KIAMETA_S3_SECRET_KEY",
		"docai.endpoint":            "KIAMETA_DOCAI_ENDPOINT",
		"docai.processor_id":        "KIAMETA_DOCAI_PROCESSOR_ID",
		"docai.api_key":             "KIAMETA_DOCAI_API_KEY",
		"docai.sync_max_bytes":      "KIAMETA_DOCAI_SYNC_MAX_BYTES",
		"docai.poll_interval_secs":  "KIAMETA_DOCAI_POLL_INTERVAL_SECS",
		"docai.poll_timeout_secs":   "KIAMETA_DOCAI_POLL_TIMEOUT_SECS",
		"docai.timeout_secs":        "KIAMETA_DOCAI_TIMEOUT_SECS",
		"gemini.api_key":            "KIAMETA_GEMINI_API_KEY",
		"gemini.model":              "KIAMETA_GEMINI_MODEL",
		"gemini.timeout_secs":       "KIAMETA_GEMINI_TIMEOUT_SECS",
		"metadata.extractor":        "KIAMETA_METADATA_EXTRACTOR",
		"input.path":                "KIAMETA_INPUT_PATH",
		"input.folder":              "KIAMETA_INPUT_FOLDER",
		"input.bucket":              "KIAMETA_INPUT_BUCKET",
		"input.prefix":              "KIAMETA_INPUT_PREFIX",
		"output.bucket":             "KIAMETA_OUTPUT_BUCKET",
		"output.prefix":             "KIAMETA_OUTPUT_PREFIX",
		"output.append_key":         "KIAMETA_OUTPUT_APPEND_KEY",
		"video.api_key":             "KIAMETA_VIDEO_API_KEY",
		"video.transcript_save_key": "KIAMETA_VIDEO_TRANSCRIPT_SAVE_KEY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.DocAI = DocAIConfig{
		Endpoint:         v.GetString("docai.endpoint"),
		ProcessorID:      v.GetString("docai.processor_id"),
		APIKey:           v.GetString("docai.api_key"),
		SyncMaxBytes:     v.GetInt64("docai.sync_max_bytes"),
		PollIntervalSecs: v.GetInt("docai.poll_interval_secs"),
		PollTimeoutSecs:  v.GetInt("docai.poll_timeout_secs"),
		TimeoutSecs:      v.GetInt("docai.timeout_secs"),
	}
	cfg.Gemini = GeminiConfig{
		APIKey:      v.GetString("gemini.api_key"),
		Model:       v.GetString("gemini.model"),
		TimeoutSecs: v.GetInt("gemini.timeout_secs"),
	}
	cfg.Metadata = MetadataConfig{
		Extractor: v.GetString("metadata.extractor"),
	}
	cfg.Input = InputConfig{
		Path:   v.GetString("input.path"),
		Folder: v.GetString("input.folder"),
		Bucket: v.GetString("input.bucket"),
		Prefix: v.GetString("input.prefix"),
	}
	cfg.Output = OutputConfig{
		Bucket:    v.GetString("output.bucket"),
		Prefix:    normalizePrefix(v.GetString("output.prefix")),
		AppendKey: v.GetString("output.append_key"),
	}
	cfg.Video = VideoConfig{
		APIKey:            v.GetString("video.api_key"),
		TranscriptSaveKey: v.GetString("video.transcript_save_key"),
	}

	return cfg, nil
}

// normalizePrefix guarantees a non-empty key prefix ends in exactly one
// slash, so key joins cannot mangle the destination.
func normalizePrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	return strings.TrimRight(prefix, "/") + "/"
}

// Validate checks required settings before any extraction starts. It returns
// a domain.ErrConfigInvalid-wrapped error naming every missing key.
func (c *Config) Validate() error {
	var missing []string
	if c.DocAI.Endpoint == "" {
		missing = append(missing, "KIAMETA_DOCAI_ENDPOINT")
	}
	if c.DocAI.ProcessorID == "" {
		missing = append(missing, "KIAMETA_DOCAI_PROCESSOR_ID")
	}
	if c.Output.Bucket == "" {
		missing = append(missing, "KIAMETA_OUTPUT_BUCKET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required environment variables: %s",
			domain.ErrConfigInvalid, strings.Join(missing, ", "))
	}

	if c.Input.Path == "" && c.Input.Folder == "" && c.Input.Bucket == "" {
		return fmt.Errorf("%w: one of KIAMETA_INPUT_PATH, KIAMETA_INPUT_FOLDER, KIAMETA_INPUT_BUCKET must be set",
			domain.ErrConfigInvalid)
	}

	switch c.Metadata.Extractor {
	case "rules":
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("%w: KIAMETA_GEMINI_API_KEY is required when metadata.extractor is gemini",
				domain.ErrConfigInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown metadata extractor %q (want rules or gemini)",
			domain.ErrConfigInvalid, c.Metadata.Extractor)
	}

	return nil
}
