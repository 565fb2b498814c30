package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/eriks112/Snake3D/internal/config"
	"github.com/eriks112/Snake3D/internal/logging"
	"github.com/eriks112/Snake3D/internal/replay"
	"github.com/eriks112/Snake3D/internal/scoreboard"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

type options struct {
	configDir string
	headless  bool
	script    string
	ticks     int
}

func main() {
	fs := pflag.NewFlagSet("snake3d", pflag.ExitOnError)
	opts := options{}
	fs.StringVar(&opts.configDir, "config", ".", "directory containing "+config.FileName)
	fs.BoolVar(&opts.headless, "headless", false, "run without a window; the game starts at once")
	fs.StringVar(&opts.script, "script", "", "play a YAML key script, print the result and exit")
	fs.IntVar(&opts.ticks, "ticks", 0, "stop a headless run after this many ticks (0 runs until game over)")

	fs.String("log-level", "info", "log level (trace, debug, info, warn, error, off)")
	fs.String("mode", "turn", "snake kinematics: path or turn")
	fs.Float32("speed", 20, "initial head speed")
	fs.Bool("third-person", false, "start with the third-person camera and relative turns")
	fs.Uint64("seed", 0, "pickup spawn seed (0 picks a random seed)")
	fs.Float64("tick-rate", 60, "engine ticks per second")
	fs.Bool("profiling", false, "log tick and render statistics")
	fs.String("scoreboard", "snake3d_scores.db", "scoreboard database path")

	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(opts, fs); err != nil {
		fmt.Fprintln(os.Stderr, "snake3d:", err)
		os.Exit(1)
	}
}

func run(opts options, fs *pflag.FlagSet) error {
	if err := config.Load(opts.configDir); err != nil {
		return err
	}
	if err := config.BindFlags(fs); err != nil {
		return err
	}
	settings, err := config.Current()
	if err != nil {
		return err
	}

	log := logging.New(settings.LogLevel, os.Stderr, settings.LogFormat == "console")
	log.Debug().Interface("settings", settings).Msg("configuration loaded")

	var board scoreboard.Board
	if settings.Scoreboard.Enabled {
		board, err = scoreboard.Open(settings.Scoreboard.Path, logging.Component(log, "scoreboard"))
		if err != nil {
			return err
		}
		defer func() {
			if err := board.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close scoreboard")
			}
		}()
	}

	if opts.script != "" {
		return runScript(opts.script, board, log)
	}

	s, err := newSession(settings, opts, board, log)
	if err != nil {
		return err
	}
	defer s.close()
	s.run()
	return nil
}

// runScript plays a replay script and prints the final state as YAML lines.
func runScript(path string, board scoreboard.Board, log zerolog.Logger) error {
	script, err := replay.ReadScript(path)
	if err != nil {
		return err
	}

	started := time.Now()
	res, err := replay.Run(context.Background(), script, replay.WithLogger(logging.Component(log, "replay")))
	if err != nil {
		return err
	}

	fmt.Printf("ticks: %d\nscore: %d\nsegments: %d\ntrail: %d\nover: %t\nhead: [%.3f, %.3f, %.3f]\n",
		res.TicksRun, res.Score, res.Segments, res.TrailLength, res.Status.Over,
		res.HeadPosition[0], res.HeadPosition[1], res.HeadPosition[2])

	if board != nil && res.Status.Over {
		_, err := board.Record(context.Background(), scoreboard.Result{
			Score:      res.Score,
			Segments:   res.Segments,
			DurationMs: int64(float32(res.TicksRun) * script.DeltaMs),
			Mode:       res.Mode,
		})
		if err != nil {
			return err
		}
	}
	log.Debug().Dur("elapsed", time.Since(started)).Msg("script finished")
	return nil
}
