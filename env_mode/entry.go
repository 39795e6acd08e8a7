package env_mode

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/leeforge/autumn/logging"
	"go.uber.org/zap"
)

// EnvKey selects the active environment.
const EnvKey = "SPRING_ENV"

// Env is the active application environment.
type Env int

const (
	Dev Env = iota
	Test
	Prod
)

// String returns the short environment name used in overlay file names.
func (e Env) String() string {
	switch e {
	case Test:
		return "test"
	case Prod:
		return "prod"
	default:
		return "dev"
	}
}

// Suffix is inserted before the config file extension to find the overlay.
func (e Env) Suffix() string {
	return "-" + e.String()
}

// ParseEnv matches s case-insensitively against dev, test and prod. Anything
// else, including long forms such as "production", falls back to Dev.
func ParseEnv(s string) Env {
	switch strings.ToLower(s) {
	case "test":
		return Test
	case "prod":
		return Prod
	default:
		return Dev
	}
}

// FromEnv reads EnvKey from the process environment.
func FromEnv() Env {
	return ParseEnv(os.Getenv(EnvKey))
}

// Init loads .env files into the process environment and then resolves the
// environment. Missing files are not an error.
func Init(files ...string) Env {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			logging.Debug("environment file not loaded", zap.String("path", f), zap.Error(err))
			continue
		}
		logging.Debug("environment file loaded", zap.String("path", f))
	}
	return FromEnv()
}

// OverlayPath returns the environment overlay for a base config path:
// "config/app.toml" with Dev becomes "config/app-dev.toml".
func OverlayPath(base string, env Env) string {
	dir := filepath.Dir(base)
	name := filepath.Base(base)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return filepath.Join(dir, stem+env.Suffix()+ext)
}
