package agent

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/samuelfneumann/qcontrol/agent/qtable"
)

// Type represents a specific type of an agent Config.
// Config's with this type can create Agents of the corresponding type.
type Type string

const (
	EGreedyQLearning Type = "EGreedyQLearning"
)

// Config represents a configuration for creating an agent
type Config interface {
	// CreateAgent creates the agent that the config describes. The
	// agent learns the values stored in table.
	CreateAgent(table *qtable.QTable, seed uint64) (Agent, error)

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error

	// Type returns the type of agent that the Config describes
	Type() Type
}

// Registered types with the package. Once a Type has been registered
// with this map, a TypedConfig with that type can be created.
//
// No Type's are registered wtih this package upon initialization.
// Each separate package is in charge of registering its Type with
// the package separately to avoid circular imports.
var registeredTypes map[Type]reflect.Type

func init() {
	registeredTypes = make(map[Type]reflect.Type)
}

// Register registers a Config type with the package so that
// TypedConfigs of that type can be unmarshalled
func Register(agent Type, config Config) {
	registeredTypes[agent] = reflect.TypeOf(config)
}

// TypedConfig wraps a Config to enable a Config type to be JSON
// marshaled and unmarshaled into its underlying concrete type
type TypedConfig struct {
	Type
	Config
}

// NewTypedConfig returns a new TypedConfig wrapping c
func NewTypedConfig(c Config) TypedConfig {
	return TypedConfig{Type: c.Type(), Config: c}
}

// UnmarshalJSON implements the json.Unmarshaller interface
func (t *TypedConfig) UnmarshalJSON(data []byte) error {
	m := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	var typeName Type
	if err := json.Unmarshal(m["Type"], &typeName); err != nil {
		return fmt.Errorf("unmarshalJSON: could not read agent type: %v", err)
	}

	ty, found := registeredTypes[typeName]
	if !found {
		return fmt.Errorf("unmarshalJSON: type %v not registered", typeName)
	}

	value := reflect.New(ty).Interface()
	if raw, ok := m["Config"]; ok {
		if err := json.Unmarshal(raw, value); err != nil {
			return fmt.Errorf("unmarshalJSON: %v", err)
		}
	}

	t.Type = typeName
	t.Config = reflect.ValueOf(value).Elem().Interface().(Config)
	return nil
}
