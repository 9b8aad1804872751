package source

import (
	"errors"
	"fmt"
)

// ChannelConfig provides configuration options for creating a Channel source.
type ChannelConfig[T any] struct {
	// Input is the channel from which this source will read records.
	// This field is required.
	Input <-chan T

	// BufferSize controls the capacity of the record channel returned by Read.
	BufferSize int
}

// Validate checks if the ChannelConfig is valid.
func (c ChannelConfig[T]) Validate() error {
	if c.Input == nil {
		return errors.New("input channel cannot be nil")
	}
	if c.BufferSize < 0 {
		return fmt.Errorf("buffer size cannot be negative: %d", c.BufferSize)
	}
	return nil
}

// NewChannel creates a Channel source after validating config.
//
// Example:
//
//	input := make(chan string, 10)
//	src, err := source.NewChannel(source.ChannelConfig[string]{Input: input})
//	if err != nil {
//		// handle error
//	}
func NewChannel[T any](config ChannelConfig[T]) (*Channel[T], error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid channel config: %w", err)
	}

	return &Channel[T]{
		Input:      config.Input,
		BufferSize: config.BufferSize,
	}, nil
}

// NewCursor creates a Cursor source that decodes documents of iter into T.
func NewCursor[T any](iter Iterator) (*Cursor[T], error) {
	if iter == nil {
		return nil, errors.New("invalid cursor config: iterator cannot be nil")
	}
	return &Cursor[T]{Iter: iter}, nil
}
