package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/kbukum/todokit/logger"
)

// LoaderConfig holds the filesystem and optional file overrides.
type LoaderConfig struct {
	Fs         afero.Fs
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct env file path (optional)
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFs sets the filesystem config and env files are read from.
func WithFs(fs afero.Fs) LoaderOption {
	return func(lc *LoaderConfig) { lc.Fs = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// ResolvedFiles contains the resolved config and env file paths. An empty
// path means nothing was found.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// Resolver finds config and env files for a service.
type Resolver struct {
	Fs afero.Fs
}

// ResolveFiles returns the explicit paths from lc when set and searches the
// standard locations otherwise.
func (r *Resolver) ResolveFiles(serviceName string, lc LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{ConfigFile: lc.ConfigFile, EnvFile: lc.EnvFile}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.first(configCandidates(serviceName))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.first(envCandidates(serviceName))
	}
	return resolved
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if r.exists(p) {
			return p
		}
	}
	return ""
}

func (r *Resolver) exists(path string) bool {
	ok, err := afero.Exists(r.Fs, path)
	return err == nil && ok
}

// LoadConfig loads configuration for a service into cfg. Values come from, in
// increasing precedence: config.yml, the .env file, the process environment.
// Environment keys map onto nested fields, so API_BASE_URL fills api.base_url.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.Fs == nil {
		lc.Fs = afero.NewOsFs()
	}

	resolver := &Resolver{Fs: lc.Fs}
	files := resolver.ResolveFiles(serviceName, lc)
	log := logger.WithComponent("config")

	v := viper.New()
	v.SetFs(lc.Fs)

	if files.ConfigFile != "" && resolver.exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			log.Warn("failed to load config file", logger.ErrorFields("load "+files.ConfigFile, err))
		}
	}

	env := map[string]string{}
	if files.EnvFile != "" && resolver.exists(files.EnvFile) {
		dotenv, err := readEnvFile(lc.Fs, files.EnvFile)
		if err != nil {
			log.Warn("failed to load .env file", logger.ErrorFields("load "+files.EnvFile, err))
		}
		for k, val := range dotenv {
			env[k] = val
		}
	}
	for _, kv := range os.Environ() {
		if k, val, ok := strings.Cut(kv, "="); ok {
			env[k] = val
		}
	}

	v.AutomaticEnv()
	for k, val := range env {
		for _, key := range generateEnvKeyVariants(k) {
			v.Set(key, val)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

func readEnvFile(fs afero.Fs, path string) (map[string]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return godotenv.Parse(f)
}

// serviceNames returns the service name and, for dashed names, the part
// after the last dash ("todoist-smoke" -> "smoke").
func serviceNames(serviceName string) []string {
	names := []string{serviceName}
	if idx := strings.LastIndex(serviceName, "-"); idx != -1 && idx < len(serviceName)-1 {
		names = append(names, serviceName[idx+1:])
	}
	return names
}

var searchPrefixes = []string{".", "..", "../.."}

func configCandidates(serviceName string) []string {
	var paths []string
	for _, prefix := range searchPrefixes {
		for _, name := range serviceNames(serviceName) {
			paths = append(paths, fmt.Sprintf("%s/cmd/%s/config.yml", prefix, name))
		}
	}
	return append(paths, "./config/config.yml", "../config/config.yml", "./config.yml")
}

func envCandidates(serviceName string) []string {
	var dirs []string
	for _, name := range serviceNames(serviceName) {
		for _, base := range []string{"cmd/" + name, "config/" + name, "config", ""} {
			for _, prefix := range searchPrefixes {
				dir := prefix
				if base != "" {
					dir += "/" + base
				}
				if !slices.Contains(dirs, dir) {
					dirs = append(dirs, dir)
				}
			}
		}
	}

	var paths []string
	for _, file := range []string{".env." + serviceName, ".env"} {
		for _, dir := range dirs {
			paths = append(paths, dir+"/"+file)
		}
	}
	return paths
}

// generateEnvKeyVariants returns the viper keys an environment variable may
// address:
//
//	API_KEY      -> [api_key, api.key]
//	API_BASE_URL -> [api_base_url, api.base.url, api.base_url]
func generateEnvKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")
	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{lowerKey, strings.Join(parts, ".")}
	for i := 1; i < len(parts); i++ {
		key := strings.Join(parts[:i], ".") + "." + strings.Join(parts[i:], "_")
		if !slices.Contains(variants, key) {
			variants = append(variants, key)
		}
	}
	return variants
}
