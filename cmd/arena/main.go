package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/mandible/logger"
	"github.com/milk9111/mandible/prefabs"
)

func main() {
	headless := flag.Bool("headless", false, "run without a window and print a summary")
	ticks := flag.Int("ticks", 600, "ticks to simulate in headless mode")
	seed := flag.Int64("seed", 1, "spawn seed")
	watch := flag.Bool("watch", false, "hot reload templates from the prefabs directory")
	debug := flag.Bool("debug", false, "draw physics shapes and target lines")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	logger.Init()
	log := logger.For("arena")

	cfg := DefaultConfig()
	cfg.Seed = *seed
	arena, err := NewArena(cfg)
	if err != nil {
		logger.Log.Fatalf("arena: %v", err)
	}
	defer arena.Close()

	var watcher *prefabs.Watcher
	if *watch {
		if _, err := os.Stat(prefabs.Dir); err != nil {
			log.WithError(err).Warn("prefabs directory not found, hot reload disabled")
		} else if watcher, err = prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts")); err != nil {
			log.WithError(err).Warn("hot reload disabled")
			watcher = nil
		} else {
			defer watcher.Close()
		}
	}

	if *headless {
		for i := 0; i < *ticks; i++ {
			if watcher != nil {
				pollWatcher(arena, watcher)
			}
			arena.Update(1.0 / 60)
		}
		fields := logrus.Fields{"ticks": arena.ticks, "deaths": arena.deaths}
		for state, n := range arena.Summary() {
			fields[state] = n
		}
		log.WithFields(fields).Info("simulation finished")
		return
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("mandible arena")

	if err := ebiten.RunGame(NewGame(arena, watcher, *debug)); err != nil {
		logger.Log.Fatal(err)
	}
}

// pollWatcher applies pending file changes without blocking the frame.
func pollWatcher(arena *Arena, w *prefabs.Watcher) {
	for _, change := range w.Drain() {
		if err := arena.Reload(change); err != nil {
			arena.log.WithError(err).WithField("path", change.Path).Error("reload failed")
		}
	}
	select {
	case err, ok := <-w.Errors:
		if ok && err != nil {
			arena.log.WithError(err).Warn("watcher error")
		}
	default:
	}
}
