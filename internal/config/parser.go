package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	inapperrors "github.com/alexisbeaulieu97/inapp/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// Load reads a configuration file from disk on top of the defaults and validates it.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, inapperrors.NewParseError(path, 0, err)
	}
	return Parse(path, data)
}

// Parse decodes YAML data over the defaults. path only labels errors.
func Parse(path string, data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, inapperrors.NewParseError(path, extractLine(err), err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	line, convErr := strconv.Atoi(matches[1])
	if convErr != nil {
		return 0
	}
	return line
}
