package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	collider "github.com/flywave/go-collider"
)

const maxTicks = 64

func main() {
	configPath := flag.String("config", "config/collider.yaml", "YAML or TOML config file")
	debugOut := flag.String("debug-out", "", "write attached colliders to this GLB file")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: gltfcollider [-config file] [-debug-out file.glb] scene.glb")
		os.Exit(2)
	}

	cfg, err := collider.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *debugOut != "" {
		cfg.DebugOutput = *debugOut
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	if err := run(cfg, flag.Arg(0), logger); err != nil {
		logger.Error("collider synthesis failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg collider.Config, path string, logger *slog.Logger) error {
	world := collider.NewWorld()
	proc := collider.NewProcessor(cfg, collider.NewAssetServer(logger), world, logger)
	proc.Request(path)

	for tick := 0; tick < maxTicks && proc.Gate().State() != collider.GateConsumed; tick++ {
		reports, err := proc.Tick()
		if err != nil {
			return err
		}
		for _, rep := range reports {
			logger.Info("scene ready", "path", path, "attached", rep.Attached, "inactive", rep.Inactive)
		}
	}
	if proc.Gate().State() != collider.GateConsumed {
		return fmt.Errorf("%s was not processed after %d ticks", path, maxTicks)
	}

	if cfg.DebugOutput != "" {
		if err := collider.WriteColliderGlb(world, cfg.DebugOutput); err != nil {
			return err
		}
		logger.Info("debug colliders written", "path", cfg.DebugOutput)
	}
	return nil
}
