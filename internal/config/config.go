// Package config resolves and validates the codefmt configuration.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/bitshepherds/codefmt/internal/fs"
	"github.com/bitshepherds/codefmt/internal/validator"
)

const (
	// ConfigFile is the dedicated configuration file looked up in the working directory.
	ConfigFile = "codefmt-config.yml"
	// ManifestFile is the project manifest which may embed configuration.
	ManifestFile = "package.json"
	// ManifestKey is the key under which configuration is namespaced in the manifest.
	ManifestKey = "codefmt"
	// ConfigEnvVar overrides configuration resolution with an explicit file path.
	ConfigEnvVar = "CODEFMT_CONFIG"
	// DefaultFormatterBinary is used when the configuration names no formatter.
	DefaultFormatterBinary = "clang-format"

	schemaID = "codefmt://config.schema.json"
)

//go:embed config.schema.json
var schemaJSON []byte

// DefaultConfigContent is the packaged default configuration, used when no
// manifest key and no dedicated file are found.
//
//go:embed default-config.yml
var DefaultConfigContent []byte

// Config holds the resolved launcher configuration. It is built once per
// invocation and read-only afterwards.
type Config struct {
	IncludeEndsWith       []string `yaml:"includeEndsWith"`
	ExcludePathContains   []string `yaml:"excludePathContains"`
	ExcludePathEndsWith   []string `yaml:"excludePathEndsWith"`
	ExcludePathStartsWith []string `yaml:"excludePathStartsWith"`
	RootDirectory         string   `yaml:"rootDirectory"`
	StyleArgument         string   `yaml:"styleArgument"`
	FormatterBinary       string   `yaml:"formatterBinary"`
}

// Resolve locates and parses the configuration for the given working directory.
//
// Resolution order: explicit path from CODEFMT_CONFIG, then the "codefmt" key
// in package.json, then codefmt-config.yml in the working directory, then the
// packaged default. A candidate that exists but does not parse or does not
// satisfy the configuration schema fails resolution; there is no silent
// fallback past a broken candidate.
func Resolve(
	workDir string,
	env fs.EnvProvider,
	resolver fs.PathResolver,
	compiler validator.Compiler,
) (*Config, error) {
	v, err := compileSchema(compiler)
	if err != nil {
		return nil, err
	}

	if p := env.Get(ConfigEnvVar); p != "" {
		data, rErr := os.ReadFile(p)
		if rErr != nil {
			return nil, &MissingConfigError{Path: p}
		}
		return parse(data, p, filepath.Dir(p), resolver, v)
	}

	manifestPath := filepath.Join(workDir, ManifestFile)
	if data, rErr := os.ReadFile(manifestPath); rErr == nil {
		if !gjson.ValidBytes(data) {
			return nil, &InvalidManifestError{Path: manifestPath}
		}
		if res := gjson.GetBytes(data, ManifestKey); res.Exists() {
			return parse([]byte(res.Raw), manifestPath, workDir, resolver, v)
		}
	}

	configPath := filepath.Join(workDir, ConfigFile)
	if data, rErr := os.ReadFile(configPath); rErr == nil {
		return parse(data, configPath, workDir, resolver, v)
	}

	return parse(DefaultConfigContent, "<packaged default>", workDir, resolver, v)
}

// compileSchema compiles the embedded configuration schema.
func compileSchema(compiler validator.Compiler) (validator.Validator, error) {
	var schemaDoc validator.JSONSchema
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return nil, fmt.Errorf("embedded config schema is invalid JSON: %w", err)
	}
	if err := compiler.AddSchema(schemaID, schemaDoc); err != nil {
		return nil, fmt.Errorf("failed to register config schema: %w", err)
	}
	v, err := compiler.Compile(schemaID)
	if err != nil {
		return nil, fmt.Errorf("failed to compile config schema: %w", err)
	}
	return v, nil
}

// parse decodes one configuration candidate and applies defaults. The source
// is only used in error messages. Relative rootDirectory values resolve
// against baseDir; the root must exist and is canonicalized so symlinked
// checkouts yield a stable path.
func parse(
	data []byte,
	source, baseDir string,
	resolver fs.PathResolver,
	v validator.Validator,
) (*Config, error) {
	// Decode generically first so the document can be schema-checked.
	// yaml.v3 accepts JSON documents too, which covers the manifest path.
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &InvalidConfigError{Source: source, Wrapped: err}
	}

	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return nil, &InvalidConfigError{Source: source, Wrapped: err}
	}
	var jsonDoc validator.JSONDocument
	if err = json.Unmarshal(jsonBytes, &jsonDoc); err != nil {
		return nil, &InvalidConfigError{Source: source, Wrapped: err}
	}
	if err = v.Validate(jsonDoc); err != nil {
		return nil, &SchemaViolationError{Source: source, Wrapped: err}
	}

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &InvalidConfigError{Source: source, Wrapped: err}
	}

	if cfg.FormatterBinary == "" {
		cfg.FormatterBinary = DefaultFormatterBinary
	}

	root := cfg.RootDirectory
	switch {
	case root == "":
		root = baseDir
	case !filepath.IsAbs(root):
		root = filepath.Join(baseDir, root)
	}
	canonical, err := resolver.CanonicalPath(root)
	if err != nil {
		return nil, &InvalidConfigError{Source: source, Wrapped: fmt.Errorf("rootDirectory %q: %w", root, err)}
	}
	cfg.RootDirectory = canonical

	return &cfg, nil
}
