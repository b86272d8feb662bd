// Package qtable implements a dense tabular action-value function
package qtable

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/samuelfneumann/qcontrol/utils/matutils/initializers/weights"
	"gonum.org/v1/gonum/mat"
)

// QTable is a dense mapping from (state, action) to a scalar value
// estimate. Values are stored in a gonum matrix of shape
// (actions, states): row a holds the values of action a in every state.
//
// A QTable is created once and never resized. All writes go through
// Update, so that each update is a single read-modify-write on one
// table cell.
type QTable struct {
	values  *mat.Dense
	actions int
	states  int
}

// New returns a new QTable with the argument number of actions and
// states. If init is non-nil, the table values are initialized using
// init, otherwise all values are 0.
func New(actions, states int, init weights.Initializer) (*QTable, error) {
	if actions <= 0 {
		return nil, fmt.Errorf("new: actions must be positive, have %d",
			actions)
	}
	if states <= 0 {
		return nil, fmt.Errorf("new: states must be positive, have %d",
			states)
	}

	values := mat.NewDense(actions, states, nil)
	if init != nil {
		init.Initialize(values)
	}

	return &QTable{values: values, actions: actions, states: states}, nil
}

// Dims returns the number of actions and states in the table
func (q *QTable) Dims() (actions, states int) {
	return q.actions, q.states
}

// Value returns the value of taking action in state
func (q *QTable) Value(state, action int) float64 {
	return q.values.At(action, state)
}

// Update sets the value of taking action in state to target
func (q *QTable) Update(state, action int, target float64) {
	q.values.Set(action, state, target)
}

// BestAction returns the action with the largest value in state, along
// with its value. Ties are broken in favour of the lowest action index.
func (q *QTable) BestAction(state int) (int, float64) {
	values := q.values.ColView(state)

	best, max := 0, values.AtVec(0)
	for a := 1; a < q.actions; a++ {
		if v := values.AtVec(a); v > max {
			best, max = a, v
		}
	}
	return best, max
}

// MaxValue returns the largest action value in state
func (q *QTable) MaxValue(state int) float64 {
	_, max := q.BestAction(state)
	return max
}

// StateValues returns the maximum action value of each state
func (q *QTable) StateValues() []float64 {
	v := make([]float64, q.states)
	for s := range v {
		v[s] = q.MaxValue(s)
	}
	return v
}

// Matrix returns a copy of the underlying value matrix
func (q *QTable) Matrix() *mat.Dense {
	return mat.DenseCopyOf(q.values)
}

// header records the dimensions of a serialized table
type header struct {
	Actions int
	States  int
}

// GobEncode implements the gob.GobEncoder interface. The table
// dimensions are recorded alongside the row-major values.
func (q *QTable) GobEncode() ([]byte, error) {
	data, err := q.values.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("gobEncode: could not marshal values: %v", err)
	}

	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(header{q.actions, q.states}); err != nil {
		return nil, fmt.Errorf("gobEncode: could not encode header: %v", err)
	}
	if err := enc.Encode(data); err != nil {
		return nil, fmt.Errorf("gobEncode: could not encode values: %v", err)
	}

	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface
func (q *QTable) GobDecode(in []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(in))

	var h header
	if err := dec.Decode(&h); err != nil {
		return fmt.Errorf("gobDecode: could not decode header: %v", err)
	}

	var data []byte
	if err := dec.Decode(&data); err != nil {
		return fmt.Errorf("gobDecode: could not decode values: %v", err)
	}

	values := &mat.Dense{}
	if err := values.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("gobDecode: could not unmarshal values: %v", err)
	}

	if r, c := values.Dims(); r != h.Actions || c != h.States {
		return fmt.Errorf("gobDecode: header dimensions (%d, %d) do not "+
			"match value dimensions (%d, %d)", h.Actions, h.States, r, c)
	}

	q.values = values
	q.actions = h.Actions
	q.states = h.States
	return nil
}

// Save saves the table to a file
func (q *QTable) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not create file: %v", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(q); err != nil {
		return fmt.Errorf("save: could not encode table: %v", err)
	}
	return nil
}

// Load loads a table from a file. The dimensions of the stored table
// must match the argument dimensions, which should be recomputed from
// the configuration the table is loaded for.
func Load(filename string, actions, states int) (*QTable, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("load: could not open file: %v", err)
	}
	defer file.Close()

	q := &QTable{}
	if err := gob.NewDecoder(file).Decode(q); err != nil {
		return nil, fmt.Errorf("load: could not decode table: %v", err)
	}

	if q.actions != actions || q.states != states {
		return nil, fmt.Errorf("load: incompatible table: stored shape "+
			"(%d, %d) but configuration requires (%d, %d)", q.actions,
			q.states, actions, states)
	}
	return q, nil
}

// String implements the fmt.Stringer interface
func (q *QTable) String() string {
	return fmt.Sprintf("QTable | Actions: %d  |  States: %d", q.actions,
		q.states)
}
