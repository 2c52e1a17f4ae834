package config

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Vietnguyen696/LuongPheDuyet/pkg/constants"
	"github.com/Vietnguyen696/LuongPheDuyet/pkg/logging"
)

// EnvPrefix is prepended to every environment variable, e.g. PORTAL_PAGE_SIZE
const EnvPrefix = "PORTAL"

// Configuration keys shared by flags, environment and config files
const (
	KeyConfigFile    = "config-file"
	KeyPort          = "port"
	KeyPageSize      = "page-size"
	KeyProcessesFile = "processes-file"
	KeyApproverName  = "approver-name"
	KeyApproverRole  = "approver-role"
	KeyLogLevel      = "log-level"
	KeyLogFormat     = "log-format"
	KeyGinMode       = "gin-mode"
)

// DefaultPort is the standard portal port
const DefaultPort = 3001

// Config holds the resolved portal settings
type Config struct {
	Port          int
	PageSize      int
	ProcessesFile string
	ApproverName  string
	ApproverRole  string
	LogLevel      string
	LogFormat     string
	GinMode       string
}

// Addr returns the listen address for the HTTP server
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// DotEnvPaths are tried in order; the first readable file wins
var DotEnvPaths = []string{".env", "../.env", "../../.env"}

// LoadDotEnv loads the first .env file found and returns its path, or "" when none exists.
// Variables already present in the environment are not overridden.
func LoadDotEnv(paths ...string) string {
	if len(paths) == 0 {
		paths = DotEnvPaths
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err == nil {
			return p
		}
	}
	return ""
}

// SetupFlags registers the portal flags on fs and binds them to v
func SetupFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	fs.String(KeyConfigFile, "", "Path to config file.")
	fs.Int(KeyPort, DefaultPort, "http port for rest endpoints")
	fs.Int(KeyPageSize, constants.DefaultPageSize, "default number of records per page")
	fs.String(KeyProcessesFile, "", "YAML process catalog; built-in catalog when empty")
	fs.String(KeyApproverName, constants.DefaultApproverName, "name stamped on approval entries")
	fs.String(KeyApproverRole, constants.DefaultApproverRole, "role stamped on approval entries")
	fs.String(KeyLogLevel, "info", "log level (debug, info, warn, error)")
	fs.String(KeyLogFormat, logging.FormatJSON, "log format (json, console)")
	fs.String(KeyGinMode, gin.ReleaseMode, "gin mode (debug, release, test)")
	return v.BindPFlags(fs)
}

// Load resolves the configuration from flags, PORTAL_* environment variables and an optional config file
func Load(v *viper.Viper) (Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := v.GetString(KeyConfigFile); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := Config{
		Port:          v.GetInt(KeyPort),
		PageSize:      v.GetInt(KeyPageSize),
		ProcessesFile: v.GetString(KeyProcessesFile),
		ApproverName:  v.GetString(KeyApproverName),
		ApproverRole:  v.GetString(KeyApproverRole),
		LogLevel:      v.GetString(KeyLogLevel),
		LogFormat:     v.GetString(KeyLogFormat),
		GinMode:       v.GetString(KeyGinMode),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if c.PageSize < 1 || c.PageSize > constants.MaxPageSize {
		return fmt.Errorf("config: page-size must be between 1 and %d, got %d", constants.MaxPageSize, c.PageSize)
	}
	switch c.LogFormat {
	case logging.FormatJSON, logging.FormatConsole:
	default:
		return fmt.Errorf("config: unsupported log-format %q", c.LogFormat)
	}
	switch c.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("config: unsupported gin-mode %q", c.GinMode)
	}
	return nil
}
