package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/samuelfneumann/qcontrol/experiment"
	"github.com/samuelfneumann/qcontrol/experiment/checkpointer"
	"github.com/samuelfneumann/qcontrol/experiment/tracker"
	"github.com/samuelfneumann/qcontrol/render"
	"github.com/samuelfneumann/qcontrol/utils/matutils"
	"github.com/samuelfneumann/qcontrol/utils/progressbar"
)

func main() {
	log.SetPrefix("qcontrol: ")

	configFile := flag.String("config", "configs/track.json",
		"experiment configuration file")
	out := flag.String("out", "results", "directory to save results in")
	seed := flag.Uint64("seed", 192382, "random seed")
	every := flag.Int("checkpoint", 0,
		"checkpoint the table every n episodes, never if 0")
	snapshot := flag.Bool("render", false,
		"save a PNG snapshot of the environment after training")
	quiet := flag.Bool("quiet", false, "log episodes instead of "+
		"displaying a progress bar")
	flag.Parse()

	c, err := experiment.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("could not load configuration: %v", err)
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatalf("could not create output directory: %v", err)
	}

	trainer, err := c.Create(*seed)
	if err != nil {
		log.Fatalf("could not create experiment: %v", err)
	}
	table := trainer.Table()
	initial := table.Matrix()
	log.Println(table)

	// Track returns and episode lengths
	trainer.Register(tracker.NewReturn(filepath.Join(*out, "return.bin")))
	trainer.Register(tracker.NewEpisodeLength(filepath.Join(*out,
		"length.bin")))

	if *every > 0 {
		check, err := checkpointer.NewNEpisode(*every, table,
			checkpointer.FilenameEnumerator(0, filepath.Join(*out,
				"qtable-"), ".bin"))
		if err != nil {
			log.Fatalf("could not create checkpointer: %v", err)
		}
		trainer.RegisterCheckpointer(check)
	}

	episodes := c.Trainer.EpisodeCount
	if *quiet || episodes == 0 {
		trainer.OnEpisode(func(s experiment.EpisodeSummary) {
			log.Printf("episode %d | steps: %d | return: %.2f | done: %v",
				s.Episode, s.Steps, s.Return, s.Done)
		})
	} else {
		bar := progressbar.NewManualProgressBar(50, episodes)
		defer bar.Close()
		trainer.OnEpisode(func(s experiment.EpisodeSummary) {
			bar.Increment()
			bar.SetStatus("return: %.2f", s.Return)
			bar.Display()
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = trainer.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Printf("interrupted in episode %d, saving", trainer.CurrentEpisode())
	} else if err != nil {
		log.Fatalf("could not run experiment: %v", err)
	}

	if err := trainer.Save(); err != nil {
		log.Fatalf("could not save tracked data: %v", err)
	}
	if err := table.Save(filepath.Join(*out, "qtable.bin")); err != nil {
		log.Fatalf("could not save table: %v", err)
	}

	_, states := table.Dims()
	changed := matutils.ChangedCols(initial, table.Matrix(), 0)
	log.Printf("updated %d of %d states (%.2f%%)", changed, states,
		100*float64(changed)/float64(states))
	log.Printf("mean action values: %v",
		matutils.Format(matutils.RowMean(table.Matrix()).T()))

	if *snapshot {
		scene, ok := trainer.Environment().(render.Scene)
		if !ok {
			log.Fatalf("environment cannot be rendered")
		}
		filename := filepath.Join(*out, "snapshot.png")
		if err := render.New(scene, 0).SavePNG(filename); err != nil {
			log.Fatalf("could not render environment: %v", err)
		}
		log.Printf("saved snapshot to %v", filename)
	}
}
