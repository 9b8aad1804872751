package chunk

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of a Chunker. It is fixed once the Chunker is
// created.
type Config struct {
	// ChunkSize is the maximum number of records per emitted batch. Every
	// batch except possibly the last one holds exactly ChunkSize records.
	// It is required and must be positive; there is no default.
	ChunkSize int `yaml:"chunksize" json:"chunksize"`
}

// Validate checks that the Config can be used to build a Chunker.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return &ConfigurationError{
			Field: "chunksize",
			Err:   fmt.Errorf("%w: got %d", ErrInvalidChunkSize, c.ChunkSize),
		}
	}
	return nil
}

// LoadConfig decodes a YAML document such as
//
//	chunksize: 300
//
// and validates it. Unknown keys are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, &ConfigurationError{Field: "yaml", Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
