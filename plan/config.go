package plan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SourceConfig names one host editor that publishes scene documents over
// MQTT in service mode.
type SourceConfig struct {
	ID    string `yaml:"id" json:"id"`
	Topic string `yaml:"topic" json:"topic"`
}

// MQTTConfig holds MQTT connection settings for service mode.
type MQTTConfig struct {
	Broker        string         `yaml:"broker,omitempty" json:"broker,omitempty"`
	ClientID      string         `yaml:"clientId,omitempty" json:"clientId,omitempty"`
	PublishPrefix string         `yaml:"publishPrefix,omitempty" json:"publishPrefix,omitempty"`
	Username      string         `yaml:"username,omitempty" json:"username,omitempty"`
	Password      string         `yaml:"password,omitempty" json:"password,omitempty"`
	Sources       []SourceConfig `yaml:"sources,omitempty" json:"sources,omitempty"`
}

// Config is the full configuration file.
type Config struct {
	Refine       RefineParams `yaml:"refine" json:"refine"`
	Rooms        RoomParams   `yaml:"rooms" json:"rooms"`
	Scale        Scale        `yaml:"scale" json:"scale"`
	HiddenLayers []int        `yaml:"hiddenLayers,omitempty" json:"hiddenLayers,omitempty"`
	LockedLayers []int        `yaml:"lockedLayers,omitempty" json:"lockedLayers,omitempty"`
	MQTT         MQTTConfig   `yaml:"mqtt,omitempty" json:"mqtt,omitempty"`
}

// DefaultConfig returns a config populated with the editor's defaults.
func DefaultConfig() *Config {
	return &Config{
		Refine: DefaultRefineParams(),
		Rooms:  DefaultRoomParams(),
		Scale:  DefaultScale(),
		MQTT: MQTTConfig{
			PublishPrefix: "planweld",
			ClientID:      "planweld-engine",
		},
	}
}

// LayerFilter builds the input filter from the configured hidden and
// locked layer lists.
func (c *Config) LayerFilter() *LayerFilter {
	if len(c.HiddenLayers) == 0 && len(c.LockedLayers) == 0 {
		return nil
	}
	f := &LayerFilter{Hidden: make(map[int]bool), Locked: make(map[int]bool)}
	for _, l := range c.HiddenLayers {
		f.Hidden[l] = true
	}
	for _, l := range c.LockedLayers {
		f.Locked[l] = true
	}
	return f
}

// GetSourceByID returns the source config for the given ID.
func (c *Config) GetSourceByID(id string) *SourceConfig {
	for i := range c.MQTT.Sources {
		if c.MQTT.Sources[i].ID == id {
			return &c.MQTT.Sources[i]
		}
	}
	return nil
}

// LoadConfig loads configuration from a YAML file. Missing keys keep their
// defaults; present keys override them.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig writes the configuration to a YAML file.
func SaveConfig(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks the fields the engine cannot work without. Geometry
// tolerances are deliberately not validated: over-aggressive values degrade
// output instead of failing.
func (c *Config) Validate() error {
	if err := c.Scale.Validate(); err != nil {
		return err
	}
	if c.Rooms.MinStrongSides < 0 || c.Rooms.MinStrongSides > 4 {
		return fmt.Errorf("rooms.minStrongSides must be in 0..4, got %d", c.Rooms.MinStrongSides)
	}
	if c.MQTT.Broker != "" {
		for i, src := range c.MQTT.Sources {
			if src.ID == "" {
				return fmt.Errorf("mqtt.sources[%d].id is required", i)
			}
			if src.Topic == "" {
				return fmt.Errorf("mqtt.sources[%d].topic is required for %s", i, src.ID)
			}
		}
	}
	return nil
}
