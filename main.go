package main

import (
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"github.com/gdsim/gdsim/config"
	"github.com/gdsim/gdsim/level"
	"github.com/gdsim/gdsim/player"
	"github.com/gdsim/gdsim/sim"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a yaml config file")
		levelPath  = flag.String("level", "", "path to a decoded level file")
		hold       = flag.Bool("hold", false, "hold the jump button for the whole run")
		maxSeconds = flag.Float64("max-seconds", 600, "abort the run after this much simulated time")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "err", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	if cfg.Statsview {
		viewer.SetConfiguration(viewer.WithAddr(cfg.StatsviewAddr))
		mgr := statsview.New()
		go mgr.Start()
		log.Info("statsview listening", "addr", cfg.StatsviewAddr)
	}

	if *configPath != "" {
		watcher, err := config.Watch(*configPath)
		if err != nil {
			log.Warn("config watch unavailable", "err", err)
		} else {
			defer watcher.Close()
			go func() {
				for next := range watcher.Configs {
					log.Info("config reloaded", "tick_rate", next.TickRate)
					cfg.TickRate = next.TickRate
				}
			}()
		}
	}

	if *levelPath == "" {
		log.Error("no level given, use -level")
		os.Exit(1)
	}
	raw, err := os.ReadFile(*levelPath)
	if err != nil {
		log.Error("reading level", "path", *levelPath, "err", err)
		os.Exit(1)
	}

	world, err := level.BuildWorld(log, strings.TrimSpace(string(raw)))
	if err != nil {
		log.Error("building level", "path", *levelPath, "err", err)
		os.Exit(1)
	}

	s := sim.New(log, world, sim.Options{VisiblePadding: cfg.VisiblePadding})

	start := time.Now()
	dt := float32(1) / float32(cfg.TickRate)
	in := player.Input{Hold: *hold, Pressed: *hold}

	for !s.Done() && !s.Player.Dead && s.Elapsed() < float32(*maxSeconds) {
		s.Tick(dt, in)
		in.Pressed = false
	}

	switch {
	case s.Done():
		log.Info("run complete",
			"level_id", s.Result().LevelID,
			"simulated", s.Result().Elapsed,
			"wall", time.Since(start),
		)
	case s.Player.Dead:
		log.Info("player died",
			"x", s.Player.Pos.X(),
			"simulated", s.Elapsed(),
			"wall", time.Since(start),
		)
	default:
		log.Warn("run aborted", "simulated", s.Elapsed())
	}
}

func newLogger(levelName string) *slog.Logger {
	var lvl slog.Level
	switch levelName {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
