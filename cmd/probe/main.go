// Command probe inspects a saved universe offline: tree summaries and fuzzy
// node lookup against the latest snapshot, without running the simulation.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/talgya/macroverse/internal/entropy"
	"github.com/talgya/macroverse/internal/persistence"
	"github.com/talgya/macroverse/internal/sim"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	dbPath := flag.String("db", "data/macroverse.db", "path to the snapshot database")
	find := flag.String("find", "", "fuzzy node name to look up")
	depth := flag.Int("depth", 2, "tree depth to print")
	flag.Parse()

	db, err := persistence.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if !db.HasSnapshot() {
		fmt.Fprintln(os.Stderr, "no snapshots saved yet")
		os.Exit(1)
	}
	raw, tick, err := db.LoadLatest()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load snapshot: %v\n", err)
		os.Exit(1)
	}
	root, err := sim.LoadSnapshot(raw, entropy.NewSource(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "snapshot rejected: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("snapshot @ tick %d — %d nodes, population %s\n\n",
		tick, root.Count(), humanize.SIWithDigits(root.TotalPopulation(), 2, ""))

	if *find != "" {
		node, ok := sim.FindByName(root, *find)
		if !ok {
			fmt.Printf("no node matching %q\n", *find)
			os.Exit(1)
		}
		printNode(node)
		return
	}

	printTree(root, 0, *depth)
}

func printTree(n *sim.Node, indent, depth int) {
	fmt.Printf("%s%s [%s/%s] pop=%s stab=%.1f tech=%d\n",
		strings.Repeat("  ", indent),
		n.Name, n.Tier, n.Mode,
		humanize.SIWithDigits(n.Population.Total, 2, ""),
		n.Stability.Overall,
		n.Tech.Level,
	)
	if depth <= 0 {
		return
	}
	for _, c := range n.Children {
		printTree(c, indent+1, depth-1)
	}
}

func printNode(n *sim.Node) {
	fmt.Printf("%s (%s)\n", n.Name, n.ID)
	fmt.Printf("  tier:       %s\n", n.Tier)
	fmt.Printf("  mode:       %s (time scale %.1f)\n", n.Mode, n.TimeScale)
	fmt.Printf("  population: %s / capacity %s\n",
		humanize.SIWithDigits(n.Population.Total, 3, ""),
		humanize.SIWithDigits(n.Population.Capacity, 3, ""))
	fmt.Printf("  stability:  overall %.1f (econ %.1f social %.1f infra %.1f happy %.1f)\n",
		n.Stability.Overall, n.Stability.Economic, n.Stability.Social,
		n.Stability.Infrastructure, n.Stability.Happiness)
	fmt.Printf("  tech:       level %d, progress %.1f, efficiency %.2f\n",
		n.Tech.Level, n.Tech.Progress, n.Tech.Efficiency)
	fmt.Printf("  stockpiles:\n")
	n.Economy.Stockpile.Walk(func(key string, v float64) {
		fmt.Printf("    %-10s %s\n", key, humanize.SIWithDigits(v, 2, ""))
	})
	if len(n.ActiveEvents) > 0 {
		fmt.Printf("  events:\n")
		for _, ev := range n.ActiveEvents {
			fmt.Printf("    %s (%.1f remaining)\n", ev.Name, ev.Duration)
		}
	}
	if len(n.Children) > 0 {
		fmt.Printf("  children:   %d\n", len(n.Children))
	}
}
