package config

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

// Config is everything one run of the monitor needs, read once from the
// process environment. No ambient globals: the struct is handed to each
// component explicitly.
type Config struct {
	Token         string        // HF_TOKEN — Hugging Face API token (secret)
	Owner         string        // USERNAME — account that owns the spaces
	Spaces        []string      // SPACE_LIST — comma-separated; empty means a no-op run
	GlobalTimeout time.Duration // GLOBAL_TIMEOUT_SECONDS, default 1800
	OutputDir     string        // OUTPUT_DIR — dashboard artifacts, default "docs"
	LogDir        string        // LOG_DIR, default "logs"
	SlackWebhook  string        // SLACK_WEBHOOK — optional failure notification
	Addr          string        // ADDR — bind address for the preview server
}

// Load reads the environment. It never fails; call Validate before a
// monitoring run to enforce the required values.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("GLOBAL_TIMEOUT_SECONDS", 1800)
	v.SetDefault("OUTPUT_DIR", "docs")
	v.SetDefault("LOG_DIR", "logs")
	v.SetDefault("ADDR", "127.0.0.1:8080")
	for _, key := range []string{"HF_TOKEN", "USERNAME", "SPACE_LIST", "SLACK_WEBHOOK"} {
		_ = v.BindEnv(key)
	}

	return &Config{
		Token:         v.GetString("HF_TOKEN"),
		Owner:         v.GetString("USERNAME"),
		Spaces:        splitList(v.GetString("SPACE_LIST")),
		GlobalTimeout: time.Duration(v.GetInt("GLOBAL_TIMEOUT_SECONDS")) * time.Second,
		OutputDir:     v.GetString("OUTPUT_DIR"),
		LogDir:        v.GetString("LOG_DIR"),
		SlackWebhook:  v.GetString("SLACK_WEBHOOK"),
		Addr:          v.GetString("ADDR"),
	}
}

// ownerPattern keeps the owner hostname-safe: it is prepended to every
// space name to form a DNS label.
var ownerPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]*$`)

// Validate enforces the values a monitoring run cannot start without.
// A missing token or owner is the only fatal startup condition.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Token, validation.Required.Error("HF_TOKEN is required")),
		validation.Field(&c.Owner,
			validation.Required.Error("USERNAME is required"),
			validation.Match(ownerPattern).Error("USERNAME must be hostname-safe"),
		),
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.LogDir, validation.Required),
	)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
