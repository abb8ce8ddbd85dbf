package internal

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/tinyland-inc/clawreply/pkg/config"
	"github.com/tinyland-inc/clawreply/pkg/logger"
	"github.com/tinyland-inc/clawreply/pkg/reply"
)

const Logo = "🦞"

var (
	version   = "dev"
	gitCommit string
	buildTime string
	goVersion string
)

// ErrFailed marks a failure that has already been reported to the user.
// main exits with status 1 without printing it again.
var ErrFailed = errors.New("command failed")

// GlobalOptions are the persistent flags shared by every command.
type GlobalOptions struct {
	EnvFile string
	Debug   bool
}

// LoadConfig resolves configuration and applies the log level.
func LoadConfig(opts GlobalOptions) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{EnvFile: opts.EnvFile})
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if opts.Debug {
		level = logger.DEBUG
	}
	logger.SetLevel(level)

	return cfg, nil
}

// RequireCredentials fails early for commands that cannot work without a
// Supabase URL and key.
func RequireCredentials(cfg *config.Config) error {
	if cfg.Supabase.Complete() {
		return nil
	}
	return fmt.Errorf("%w; add them to %s or environment variables",
		reply.ErrMissingCredentials, config.FallbackEnvPath())
}

// FormatVersion returns the version string with optional git commit
func FormatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

// FormatBuildInfo returns build time and go version info
func FormatBuildInfo() (string, string) {
	build := buildTime
	goVer := goVersion
	if goVer == "" {
		goVer = runtime.Version()
	}
	return build, goVer
}

// GetVersion returns the version string
func GetVersion() string {
	return version
}
