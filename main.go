package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shapenav/config"
	"github.com/pthm-cable/shapenav/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	scenarioPath := flag.String("scenario", "", "Scenario file with obstacles and goals")
	headless := flag.Bool("headless", false, "Run without graphics (requires -scenario)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	opts := game.Options{
		Headless:     *headless,
		ScenarioPath: *scenarioPath,
		OutputDir:    *outputDir,
	}

	if *headless {
		if *scenarioPath == "" {
			slog.Error("headless mode requires -scenario")
			os.Exit(1)
		}

		g, err := game.NewGame(opts)
		if err != nil {
			slog.Error("failed to create session", "error", err)
			os.Exit(1)
		}
		defer g.Unload()

		slog.Info("starting headless run", "scenario", *scenarioPath, "max_ticks", *maxTicks)
		for {
			g.UpdateHeadless()

			if g.ScenarioDone() {
				slog.Info("scenario complete", "tick", g.Tick())
				return
			}
			if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick())
				return
			}
		}
	}

	// Graphical mode
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Shape Navigation")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGame(opts)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}
