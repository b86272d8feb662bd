package checkpointer

import (
	"fmt"

	ts "github.com/samuelfneumann/qcontrol/timestep"
)

// nEpisode implements checkpointing every N episodes
type nEpisode struct {
	interval int
	episodes int
	object   Serializable // Object to save

	// filename returns the string filename of the file to save the object
	// in.
	//
	// If each serialized object should be saved in a separate file with
	// each file having an incremented number as a suffix (e.g.
	// file1.bin, file2.bin, ..., fileK.bin), then simply use the
	// static function FilenameEnumerator, which will return a function
	// that will enumerate filenames.
	//
	// Otherwise, if each serialized object should be saved in a
	// separate file, but the filename does not matter, use the
	// static function FileTimer to generate the required naming
	// function. For example:
	//
	// n := NewNEpisode(10, table, FileTimer("qtable", ".bin"))
	filename func() string
}

// NewNEpisode returns a checkpointer that checkpoints every n
// episodes. Episodes are counted by the Last timesteps passed to
// Checkpoint.
func NewNEpisode(n int, object Serializable,
	filename func() string) (Checkpointer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("newNEpisode: interval must be positive, "+
			"have %d", n)
	}
	return &nEpisode{
		interval: n,
		object:   object,
		filename: filename,
	}, nil
}

// Checkpoint checkpoints the Checkpointer's tracked object by calling
// its Save() method
func (n *nEpisode) Checkpoint(t ts.TimeStep) error {
	if !t.Last() {
		return nil
	}

	n.episodes++
	if n.episodes%n.interval == 0 {
		return n.object.Save(n.filename())
	}
	return nil
}
