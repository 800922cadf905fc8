// Package config loads front end settings from YAML files.
//
// A config file sets the interactive prompt and extends or overrides the
// binary operator precedence table:
//
//	prompt: "ready> "
//	operators:
//	  "/": 40
//	  "<": 10
package config

import (
	"bytes"
	"io"
	"os"
	"sort"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/raymyers/ralph-toy/pkg/parser"
	"gopkg.in/yaml.v3"
)

// ErrOperatorLength is returned for operator keys that are not exactly one character
var ErrOperatorLength = errors.New("operator must be a single character")

// Config holds the settings read from a config file
type Config struct {
	Prompt    string         `yaml:"prompt,omitempty"`
	Operators map[string]int `yaml:"operators,omitempty"`
}

// Parse decodes a YAML config. Unknown keys are an error. An empty document
// yields an empty Config.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decoding config")
	}
	return cfg, nil
}

// Load reads and decodes the config file at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Merge overlays other onto c. A non-empty prompt replaces c's, and each
// operator in other replaces the one in c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Prompt != "" {
		c.Prompt = other.Prompt
	}
	if len(other.Operators) > 0 && c.Operators == nil {
		c.Operators = make(map[string]int, len(other.Operators))
	}
	for op, prec := range other.Operators {
		c.Operators[op] = prec
	}
}

// Apply sets every configured operator in prec. Operators are applied in
// sorted order and the first invalid one stops the update.
func (c *Config) Apply(prec *parser.Precedence) error {
	keys := make([]string, 0, len(c.Operators))
	for key := range c.Operators {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		op, err := OperatorRune(key)
		if err != nil {
			return err
		}
		if err := prec.Set(op, c.Operators[key]); err != nil {
			return errors.Wrapf(err, "operator %q", key)
		}
	}
	return nil
}

// OperatorRune returns the single character of an operator key
func OperatorRune(key string) (rune, error) {
	if utf8.RuneCountInString(key) != 1 {
		return 0, errors.Wrapf(ErrOperatorLength, "%q", key)
	}
	r, _ := utf8.DecodeRuneInString(key)
	return r, nil
}
