// Command macroverse runs the hierarchical abstraction simulation: a seeded
// universe of nested world nodes advanced tick by tick, with periodic
// snapshots and an HTTP observer API.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/talgya/macroverse/internal/api"
	"github.com/talgya/macroverse/internal/config"
	"github.com/talgya/macroverse/internal/engine"
	"github.com/talgya/macroverse/internal/entropy"
	"github.com/talgya/macroverse/internal/persistence"
	"github.com/talgya/macroverse/internal/sim"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	configPath := flag.String("config", "", "path to YAML config (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(cfg.DBPath), 0755)
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Load or Generate Universe ─────────────────────────────────────
	var root *sim.Node
	var startTick uint64

	if db.HasSnapshot() {
		slog.Info("found saved universe, restoring...")
		raw, tick, loadErr := db.LoadLatest()
		if loadErr != nil {
			slog.Error("failed to read snapshot", "error", loadErr)
			os.Exit(1)
		}
		root, loadErr = sim.LoadSnapshot(raw, entropy.NewSource(cfg.Seed))
		if loadErr != nil {
			slog.Error("saved universe rejected", "error", loadErr)
			os.Exit(1)
		}
		startTick = tick
		slog.Info("universe restored", "nodes", root.Count(), "tick", startTick)
	} else {
		gen := sim.DefaultGenConfig()
		gen.Seed = cfg.Seed
		gen.Depth = cfg.Depth
		gen.FanOut = cfg.FanOut
		root = sim.BuildUniverse(gen)
	}

	// ── Engine ────────────────────────────────────────────────────────
	eng := engine.NewEngine(root)
	eng.Tick = startTick
	eng.Speed = cfg.Speed
	eng.Interval = cfg.TickInterval.Std()
	eng.DeltaTime = cfg.DeltaTime
	eng.ReportEvery = cfg.ReportEvery

	// ── API ───────────────────────────────────────────────────────────
	server := &api.Server{
		Eng:            eng,
		Port:           cfg.APIPort,
		AdminKey:       cfg.AdminKey,
		AllowedOrigins: cfg.AllowedOrigins,
	}
	server.Start()

	save := func(tick uint64) {
		if _, err := db.SaveSnapshot(tick, root.Serialize()); err != nil {
			slog.Error("snapshot save failed", "error", err)
			return
		}
		db.SetMeta("last_tick", strconv.FormatUint(tick, 10))
	}

	eng.OnReport = func(tick uint64) {
		server.Broadcast(tick)
		if cfg.SnapshotEvery > 0 && tick%cfg.SnapshotEvery == 0 {
			save(tick)
		}
	}

	// ── Run until signalled ───────────────────────────────────────────
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		slog.Info("shutting down", "signal", sig)
		eng.Stop()
	}()

	eng.Run()

	// Final snapshot so a restart resumes where this run stopped.
	eng.WithLock(func() {
		save(eng.Tick)
	})
	slog.Info("universe saved", "tick", eng.Tick)
}
