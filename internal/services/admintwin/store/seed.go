package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Seed is the fixture format loaded into the twin at startup.
type Seed struct {
	Accounts []SeedAccount `yaml:"accounts" json:"accounts"`
}

// SeedAccount is an account and the properties it owns.
type SeedAccount struct {
	ID          string         `yaml:"id" json:"id"`
	DisplayName string         `yaml:"displayName" json:"displayName,omitempty"`
	Properties  []SeedProperty `yaml:"properties" json:"properties,omitempty"`
}

// SeedProperty is a property with its streams and admin resources.
type SeedProperty struct {
	ID               string          `yaml:"id" json:"id"`
	DisplayName      string          `yaml:"displayName" json:"displayName,omitempty"`
	Streams          []SeedStream    `yaml:"streams" json:"streams,omitempty"`
	CustomDimensions []SeedDimension `yaml:"customDimensions" json:"customDimensions,omitempty"`
	ConversionEvents []SeedEvent     `yaml:"conversionEvents" json:"conversionEvents,omitempty"`
}

// SeedStream is a data stream. A stream without a measurement ID is seeded as
// an app stream.
type SeedStream struct {
	ID            string `yaml:"id" json:"id"`
	DisplayName   string `yaml:"displayName" json:"displayName,omitempty"`
	MeasurementID string `yaml:"measurementId" json:"measurementId,omitempty"`
	DefaultURI    string `yaml:"defaultUri" json:"defaultUri,omitempty"`
}

// SeedDimension is a custom dimension to preload.
type SeedDimension struct {
	ParameterName string `yaml:"parameterName" json:"parameterName"`
	DisplayName   string `yaml:"displayName" json:"displayName"`
	Description   string `yaml:"description" json:"description,omitempty"`
	Scope         string `yaml:"scope" json:"scope,omitempty"`
}

// SeedEvent is a conversion event to preload. Seeded events are custom
// unless Custom is explicitly false.
type SeedEvent struct {
	EventName string `yaml:"eventName" json:"eventName"`
	Custom    *bool  `yaml:"custom" json:"custom,omitempty"`
}

// ParseSeed decodes a YAML seed document.
func ParseSeed(data []byte) (Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	return seed, nil
}

// LoadSeedFile reads and decodes a YAML seed file.
func LoadSeedFile(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed %s: %w", path, err)
	}
	return ParseSeed(data)
}
