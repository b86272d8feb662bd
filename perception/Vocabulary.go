// Package perception implements the discretization of local sensory
// input into a single bounded state index which can be used to index
// a tabular value function.
//
// An Observation consists of a fan of ray readings, each of which
// either hit nothing or hit a surface carrying some tag, together with
// a small number of discrete context values (e.g. the number of
// checkpoints passed). The Encoder maps an Observation to an integer
// in [0, StateCount()) using a mixed-radix encoding.
package perception

import (
	"fmt"
	"strings"
)

// Tag is the index of a tag in a Vocabulary, offset by one so that the
// zero value NoHit represents a ray that hit nothing (or hit something
// carrying a tag outside the vocabulary).
type Tag int

// NoHit is the Tag of a ray that hit nothing recognizable
const NoHit Tag = 0

// Vocabulary is a closed, ordered set of tags. Tags are resolved to
// their index once, when the environment registers its surfaces, so
// that no string comparisons are needed on each tick.
type Vocabulary struct {
	tags  []string
	index map[string]Tag
}

// NewVocabulary returns a new Vocabulary with the argument tags. The
// order of tags determines the digit each tag contributes to the state
// index: tags[i] is encoded as digit i+1.
func NewVocabulary(tags []string) (*Vocabulary, error) {
	if len(tags) == 0 {
		return nil, fmt.Errorf("newVocabulary: at least one tag is required")
	}

	index := make(map[string]Tag, len(tags))
	for i, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return nil, fmt.Errorf("newVocabulary: tag %d is empty", i)
		}
		if _, ok := index[tag]; ok {
			return nil, fmt.Errorf("newVocabulary: duplicate tag %q", tag)
		}
		index[tag] = Tag(i + 1)
	}

	t := make([]string, len(tags))
	copy(t, tags)

	return &Vocabulary{tags: t, index: index}, nil
}

// Resolve returns the Tag of the argument tag name. Unregistered tag
// names resolve to NoHit.
func (v *Vocabulary) Resolve(name string) Tag {
	return v.index[name]
}

// Name returns the name of a tag, or the empty string for NoHit and
// tags outside the vocabulary
func (v *Vocabulary) Name(t Tag) string {
	if !v.Contains(t) {
		return ""
	}
	return v.tags[t-1]
}

// Contains returns whether t is a tag in the vocabulary. NoHit is not
// contained in any vocabulary.
func (v *Vocabulary) Contains(t Tag) bool {
	return t > NoHit && int(t) <= len(v.tags)
}

// Len returns the number of tags in the vocabulary
func (v *Vocabulary) Len() int {
	return len(v.tags)
}

// Tags returns a copy of the ordered tag names
func (v *Vocabulary) Tags() []string {
	t := make([]string, len(v.tags))
	copy(t, v.tags)
	return t
}

// String implements the fmt.Stringer interface
func (v *Vocabulary) String() string {
	return fmt.Sprintf("Vocabulary%v", v.tags)
}
