package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// geometriesFilePath is the default preset file looked up from the working
// directory when --preset is given.
const geometriesFilePath = "geometries.yaml"

// GeometryPreset describes a named cache shape in geometries.yaml.
type GeometryPreset struct {
	Sets     int   `yaml:"sets"`
	Ways     int   `yaml:"ways"`
	LineSize int   `yaml:"line_size"`
	ClockMHz int64 `yaml:"clock_mhz"`
}

// GeometryFile represents the full geometries.yaml structure. All
// top-level sections must be listed to satisfy KnownFields(true) strict
// parsing, so typos in the file surface as errors.
type GeometryFile struct {
	Version string                    `yaml:"version"`
	Presets map[string]GeometryPreset `yaml:"presets"`
}

// LoadGeometryPresets reads and strictly parses a geometry preset file.
func LoadGeometryPresets(path string) (*GeometryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading geometry presets: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	var file GeometryFile
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing geometry presets: %w", err)
	}
	return &file, nil
}

// GetGeometryPreset resolves a named preset from the default preset file.
func GetGeometryPreset(name string) (GeometryPreset, error) {
	file, err := LoadGeometryPresets(geometriesFilePath)
	if err != nil {
		return GeometryPreset{}, err
	}
	preset, ok := file.Presets[name]
	if !ok {
		return GeometryPreset{}, fmt.Errorf("unknown geometry preset %q", name)
	}
	return preset, nil
}
