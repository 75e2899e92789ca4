package predictor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Default configuration values.
const (
	DefaultTableSize   = 1024
	DefaultHistoryBits = 10
)

// Config selects a predictor algorithm and its parameters.
type Config struct {
	// Name labels the predictor in reports. Defaults to the kind.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Kind is the predictor algorithm.
	Kind Kind `json:"kind" yaml:"kind"`

	// AlwaysTaken is the bias of a static predictor. Default: true.
	AlwaysTaken bool `json:"always_taken" yaml:"always_taken"`

	// TableSize is the number of entries of a bimodal table and of the
	// hybrid selector. Default: 1024.
	TableSize int `json:"table_size" yaml:"table_size"`

	// HistoryBits is the global history width of gshare and hybrid
	// predictors. Gshare tables hold 2^HistoryBits entries. Default: 10.
	HistoryBits int `json:"history_bits" yaml:"history_bits"`
}

// ConfigSet is a file holding several predictor configurations.
type ConfigSet struct {
	Predictors []Config `json:"predictors" yaml:"predictors"`
}

// DefaultConfig returns the default configuration for a predictor kind.
func DefaultConfig(kind Kind) Config {
	return Config{
		Kind:        kind,
		AlwaysTaken: true,
		TableSize:   DefaultTableSize,
		HistoryBits: DefaultHistoryBits,
	}
}

// plainConfig has no methods, so decoding into it does not recurse.
type plainConfig Config

// UnmarshalJSON decodes a config, keeping defaults for absent fields.
func (c *Config) UnmarshalJSON(data []byte) error {
	p := plainConfig(DefaultConfig(c.Kind))
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Config(p)
	return nil
}

// UnmarshalYAML decodes a config, keeping defaults for absent fields.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	p := plainConfig(DefaultConfig(c.Kind))
	if err := unmarshal(&p); err != nil {
		return err
	}
	*c = Config(p)
	return nil
}

// Label returns the report label of the predictor.
func (c Config) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return string(c.Kind)
}

// Validate checks that the configuration describes a buildable predictor.
// Sizes are only checked for the kinds that use them.
func (c Config) Validate() error {
	switch c.Kind {
	case KindStatic, KindOneBit, KindTwoBit:
		return nil
	case KindBimodal:
		return checkTableSize(c.TableSize)
	case KindGShare:
		return checkHistoryBits(c.HistoryBits)
	case KindHybrid:
		if err := checkTableSize(c.TableSize); err != nil {
			return err
		}
		return checkHistoryBits(c.HistoryBits)
	default:
		return fmt.Errorf("%w: unknown predictor kind %q", ErrConfiguration, c.Kind)
	}
}

// Clone returns a copy of the configuration.
func (c Config) Clone() Config {
	return c
}

// New builds the predictor described by cfg.
func New(cfg Config) (Predictor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Kind {
	case KindStatic:
		return NewStatic(cfg.AlwaysTaken), nil
	case KindOneBit:
		return NewOneBit(), nil
	case KindTwoBit:
		return NewTwoBit(), nil
	case KindBimodal:
		return NewBimodal(cfg.TableSize)
	case KindGShare:
		return NewGShare(cfg.HistoryBits)
	default:
		return NewHybrid(cfg.HistoryBits, cfg.TableSize)
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func decode(path string, data []byte, v interface{}) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

// LoadConfig loads a single predictor configuration from a JSON or YAML
// file. Fields absent from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read predictor config file")
	}

	var config Config
	if err := decode(path, data, &config); err != nil {
		return Config{}, errors.Wrap(err, "failed to parse predictor config")
	}

	if err := config.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}

	return config, nil
}

// LoadConfigs loads the predictor configurations in a file. The file holds
// either a "predictors" list or a single configuration.
func LoadConfigs(path string) ([]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read predictor config file")
	}

	var set ConfigSet
	if err := decode(path, data, &set); err != nil {
		return nil, errors.Wrap(err, "failed to parse predictor config")
	}

	if len(set.Predictors) == 0 {
		config, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		return []Config{config}, nil
	}

	for i, config := range set.Predictors {
		if err := config.Validate(); err != nil {
			return nil, errors.Wrapf(err, "config %s, predictor %d", path, i)
		}
	}

	return set.Predictors, nil
}

// SaveConfig writes the configuration to a JSON or YAML file, chosen by
// the file extension.
func (c Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return errors.Wrap(err, "failed to serialize predictor config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write predictor config file")
	}

	return nil
}
