// Command kropla-cli is the engine's external interface (spec §6):
// interactive by default, or a one-shot batch move for a transcript file
// or stdin. Grounded on cmd/chessplay-uci's flag/profile/engine-wiring
// pattern, swapping the NNUE auto-load for pattern-table and CNN-weight
// auto-load.
package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/bartekd/kropla/internal/cli"
	"github.com/bartekd/kropla/internal/cnn"
	"github.com/bartekd/kropla/internal/config"
	"github.com/bartekd/kropla/internal/pattern"
	"github.com/bartekd/kropla/internal/storage"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	maxMoves   = flag.Int("max-moves", 1<<30, "maximum ply to replay from a batch transcript before playing")
)

func main() {
	flag.Parse()

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	store, err := storage.NewStorage()
	if err != nil {
		log.Printf("storage unavailable, running without persistence: %v", err)
		store = nil
	} else {
		defer store.Close()
	}

	saveMC := false
	if dataDir, err := storage.GetDataDir(); err == nil {
		saveMC = config.HasSaveMCConfig(dataDir)
	}

	tables := loadTables(store)
	cnnNet := loadCNN(cfg)

	c, err := cli.New(cfg, tables, cnnNet, store)
	if err != nil {
		log.Fatalf("initialising engine: %v", err)
	}
	c.SetSaveMCStats(saveMC)

	args := flag.Args()
	switch {
	case len(args) == 0:
		c.RunInteractive()
	case args[0] == "-":
		if err := c.RunStdinBatch(); err != nil {
			log.Fatalf("stdin batch: %v", err)
		}
	default:
		if err := c.RunBatchFile(args[0], *maxMoves); err != nil {
			log.Fatalf("batch %s: %v", args[0], err)
		}
	}
}

func loadTables(store *storage.Storage) *pattern.Tables {
	if store != nil {
		if t, found, err := store.LoadPatternTables(); err == nil && found {
			return t
		} else if err != nil {
			log.Printf("pattern tables load failed, using defaults: %v", err)
		}
	}
	return pattern.DefaultTables()
}

func loadCNN(cfg config.Config) *cnn.Network {
	if cfg.CNNWeightPath != "" {
		if net, err := cnn.LoadWeights(cfg.CNNWeightPath); err == nil {
			return net
		} else {
			log.Printf("CNN weights load failed from %s, using random network: %v", cfg.CNNWeightPath, err)
		}
	}
	return cnn.NewRandom(19, 19, 1)
}
