package main

import (
	"fmt"
	"os"
	"strconv"

	"sigs.k8s.io/yaml"
)

// A Suite lists the codecs to compare.
//
//	codecs:
//	  - name: lpz
//	  - name: zstd
//	    level: 3
type Suite struct {
	Codecs []CodecConfig `json:"codecs"`
}

// A CodecConfig selects a codec and its compression level.
type CodecConfig struct {
	Name  string `json:"name"`
	Level int    `json:"level,omitempty"`
}

func (c CodecConfig) label() string {
	if c.Level == 0 {
		return c.Name
	}
	return c.Name + "-" + strconv.Itoa(c.Level)
}

// DefaultSuite compares lpz with each of the other codecs at its default
// level.
var DefaultSuite = Suite{
	Codecs: []CodecConfig{
		{Name: "lpz"},
		{Name: "lpz-lazy"},
		{Name: "lpz-fast"},
		{Name: "zstd"},
		{Name: "s2"},
		{Name: "flate"},
		{Name: "snappy"},
		{Name: "lz4"},
		{Name: "brotli"},
	},
}

// LoadSuite reads a Suite from a YAML file.
func LoadSuite(path string) (Suite, error) {
	var s Suite
	data, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := yaml.UnmarshalStrict(data, &s); err != nil {
		return s, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(s.Codecs) == 0 {
		return s, fmt.Errorf("%s: no codecs listed", path)
	}
	return s, nil
}
