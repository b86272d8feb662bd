// Package initwfn implements functionality to wrap Gorgonia InitWFn
// so that they can be JSON serialized into configuraiton files and
// used to initialize value tables.
package initwfn

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/samuelfneumann/qcontrol/utils/matutils/initializers/weights"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Type describes different types of InitWFn that are available.
// Type is used to implement a basic type system of InitWFn's.
type Type string

// Available InitWFn types
const (
	Zeroes   Type = "Zeroes"
	Ones     Type = "Ones"
	Constant Type = "Constant"
	Uniform  Type = "Uniform"
	Gaussian Type = "Gaussian"
)

// InitWFn wraps Gorgonia InitWFn so that they can be JSON marshalled and
// unmarshalled.
type InitWFn struct {
	initWFn G.InitWFn
	Type
	Config
}

// newInitWFn returns a new InitWFn
func newInitWFn(c Config) (*InitWFn, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newInitWFn: %v", err)
	}

	init := InitWFn{Type: c.Type(), Config: c}
	init.initWFn = init.Config.Create()

	return &init, nil
}

// InitWFn returns the wrapped Gorgonia InitWFn
func (w *InitWFn) InitWFn() G.InitWFn {
	return w.initWFn
}

// Initialize fills a matrix with values drawn from the wrapped
// Gorgonia InitWFn. Initialize implements the weights.Initializer
// interface. Gorgonia seeds its random initializers from the clock,
// so use Seeded where draws must be reproducible.
func (w *InitWFn) Initialize(weights *mat.Dense) {
	if weights == nil {
		return
	}
	r, c := weights.Dims()

	values, ok := w.initWFn(tensor.Float64, r, c).([]float64)
	if !ok {
		panic(fmt.Sprintf("initialize: %v did not produce []float64", w.Type))
	}
	copy(weights.RawMatrix().Data, values)
}

// Seeded returns a weights.Initializer equivalent to the wrapped
// InitWFn whose random draws are seeded with seed
func (w *InitWFn) Seeded(seed uint64) weights.Initializer {
	return w.Config.Initializer(seed)
}

// String implements the fmt.Stringer interface
func (i *InitWFn) String() string {
	return fmt.Sprintf("{%v InitWFn: %v}", i.Type, i.Config)
}

// UnmarshalJSON implements the json.Unmarshaller interface
func (i *InitWFn) UnmarshalJSON(data []byte) error {
	config, typeName, err := unmarshalConfig(
		data,
		"Type",
		"Config",
		map[string]reflect.Type{
			string(Zeroes):   reflect.TypeOf(ZeroesConfig{}),
			string(Ones):     reflect.TypeOf(OnesConfig{}),
			string(Constant): reflect.TypeOf(ConstantConfig{}),
			string(Uniform):  reflect.TypeOf(UniformConfig{}),
			string(Gaussian): reflect.TypeOf(GaussianConfig{}),
		})
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("unmarshalJSON: %v", err)
	}

	i.Type = typeName
	i.Config = config
	i.initWFn = i.Config.Create()

	return nil
}

// unmarshalConfig uses reflection to unmarshall a Config into its
// concrete type. Both the Config and its Type are returned.
func unmarshalConfig(data []byte, typeJsonField, valueJsonField string,
	customTypes map[string]reflect.Type) (Config, Type, error) {
	m := map[string]interface{}{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, "", err
	}

	typeName, ok := m[typeJsonField].(string)
	if !ok {
		return nil, "", fmt.Errorf("unmarshalConfig: missing field %q",
			typeJsonField)
	}

	ty, found := customTypes[typeName]
	if !found {
		return nil, "", fmt.Errorf("unmarshalConfig: no such initializer "+
			"type %q", typeName)
	}
	value := reflect.New(ty).Interface()

	if raw, ok := m[valueJsonField]; ok {
		valueBytes, err := json.Marshal(raw)
		if err != nil {
			return nil, "", err
		}

		if err = json.Unmarshal(valueBytes, value); err != nil {
			return nil, "", err
		}
	}
	concreteValue := reflect.ValueOf(value).Elem().Interface().(Config)

	return concreteValue, Type(typeName), nil
}

// Config implements a Gorgonia InitWFn configuration and can be used to
// create the described Gorgonia InitWFn's.
type Config interface {
	// Create returns the Gorgonia InitWFn that the Config describes
	Create() G.InitWFn

	// Type returns the type of Gorgonia InitWFn that is returned
	Type() Type

	// Validate returns an error describing whether or not the
	// configuration is valid
	Validate() error

	// Initializer returns a weights.Initializer drawing the same
	// values as the Gorgonia InitWFn from a source seeded with seed
	Initializer(seed uint64) weights.Initializer
}
