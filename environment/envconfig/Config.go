// Package envconfig provides configuration structs for configuring
// environments with default physical parameters. Environment
// configurations in this package are JSON serializable.
package envconfig

import (
	"fmt"

	"github.com/samuelfneumann/qcontrol/environment"
	"github.com/samuelfneumann/qcontrol/environment/box2d/meadow"
	"github.com/samuelfneumann/qcontrol/environment/box2d/track"
	"github.com/samuelfneumann/qcontrol/perception"
	"github.com/samuelfneumann/qcontrol/reward"
	"gonum.org/v1/gonum/spatial/r1"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	Track  EnvName = "Track"
	Meadow EnvName = "Meadow"
)

// Config implements a specific configuration of a specific environment.
// Only the section matching Environment is used.
type Config struct {
	Environment EnvName

	Track  track.Config
	Meadow meadow.Config

	// Start optionally bounds the x position, y position, and heading
	// of starting poses. If empty, the environment default is used.
	Start []r1.Interval
}

// Validate returns an error describing whether or not the
// configuration is valid
func (c Config) Validate() error {
	switch c.Environment {
	case Track:
		if err := c.Track.Validate(); err != nil {
			return fmt.Errorf("validate: %v", err)
		}
	case Meadow:
		if err := c.Meadow.Validate(); err != nil {
			return fmt.Errorf("validate: %v", err)
		}
	default:
		return fmt.Errorf("validate: no such environment %q", c.Environment)
	}

	if len(c.Start) != 0 && len(c.Start) != 3 {
		return fmt.Errorf("validate: start bounds should be 3-dimensional, "+
			"have %d", len(c.Start))
	}
	return nil
}

// Tags returns the default tag vocabulary of the environment
func (c Config) Tags() []string {
	switch c.Environment {
	case Track:
		return track.Tags()
	case Meadow:
		return meadow.Tags()
	}
	return nil
}

// ContextSizes returns the cardinality of each context dimension the
// environment reports
func (c Config) ContextSizes() []int {
	switch c.Environment {
	case Track:
		gates := c.Track.Gates
		if gates == 0 {
			gates = track.DefaultGates
		}
		return []int{gates + 1}

	case Meadow:
		buckets := c.Meadow.Buckets
		if buckets == 0 {
			buckets = meadow.DefaultBuckets
		}
		return []int{buckets}
	}
	return nil
}

// Encoder fills in the vocabulary and context of an encoder
// configuration with the environment defaults, where they are not set
func (c Config) Encoder(e perception.Config) perception.Config {
	if len(e.Tags) == 0 {
		e.Tags = c.Tags()
	}
	if len(e.ContextSizes) == 0 && e.StateSize == 0 {
		e.ContextSizes = c.ContextSizes()
	}
	return e
}

// Create returns the environment described by the Config. Reward
// events of the environment are reported to sink.
func (c Config) Create(encoder *perception.Encoder, sink reward.Sink,
	seed uint64) (environment.Environment, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	var starter environment.Starter
	if len(c.Start) != 0 {
		s, err := environment.NewUniformStarter(c.Start, seed)
		if err != nil {
			return nil, fmt.Errorf("create: %v", err)
		}
		starter = s
	}

	switch c.Environment {
	case Track:
		return track.New(c.Track, encoder, sink, starter, seed)

	case Meadow:
		return meadow.New(c.Meadow, encoder, sink, starter, seed)
	}

	panic(fmt.Sprintf("create: cannot create environment %v, no such "+
		"environment", c.Environment))
}
