// Command evochora runs a simulation from a YAML SimulationConfig and a
// directory of compiled program artifacts, mirrored from the teacher's
// samples/*/main.go: build the world, run it, print a final report, exit
// through atexit so registered cleanup handlers still fire.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/tebeka/atexit"

	"github.com/evochora/evochora/artifact"
	"github.com/evochora/evochora/config"
	"github.com/evochora/evochora/evolog"
	"github.com/evochora/evochora/report"
	"github.com/evochora/evochora/sim"
	"github.com/evochora/evochora/snapshot"
)

func main() {
	configPath := flag.String("config", "", "path to the simulation's YAML config")
	artifactsDir := flag.String("artifacts", "", "directory of <programId>.json artifact files")
	verbose := flag.Bool("v", false, "log per-tick trace output")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "evochora: -config is required")
		atexit.Exit(2)
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = evolog.LevelTrace
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "evochora: %v\n", err)
		atexit.Exit(1)
		return
	}

	artifacts, err := loadArtifacts(*artifactsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "evochora: %v\n", err)
		atexit.Exit(1)
		return
	}

	var seed uint64
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	rng := rand.New(rand.NewSource(int64(seed)))

	builder := config.NewBuilder(cfg).WithRNG(rng)
	for _, a := range artifacts {
		builder = builder.WithArtifact(a)
	}

	e, organisms, strategies, err := builder.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "evochora: %v\n", err)
		atexit.Exit(1)
		return
	}

	s := sim.New(e, organisms, strategies, int64(len(organisms)+1))
	if *verbose {
		s.OnSnapshot = func(state snapshot.RawTickState) {
			fmt.Fprintln(os.Stderr, report.TickCells(state))
		}
	}

	opts := sim.RunOptions{AutoPauseTicks: cfg.AutoPauseTicks, MaxTicks: cfg.MaxTicks}
	s.Run(context.Background(), opts)

	for _, o := range s.Organisms {
		fmt.Println(report.Organism(o))
	}

	atexit.Exit(0)
}

// loadArtifacts reads every *.json file in dir as a JSON-encoded
// artifact.Artifact. dir may be empty, in which case no organism can be
// seeded (a config with no initialOrganisms still runs, e.g. to observe
// world-gen alone).
func loadArtifacts(dir string) (map[string]*artifact.Artifact, error) {
	out := make(map[string]*artifact.Artifact)
	if dir == "" {
		return out, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading artifacts dir %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading artifact %s: %w", path, err)
		}
		a := artifact.New("")
		if err := json.Unmarshal(data, a); err != nil {
			return nil, fmt.Errorf("parsing artifact %s: %w", path, err)
		}
		out[a.ProgramID] = a
	}
	return out, nil
}
