package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shanehull/ratescout/internal/storage"
)

func main() {
	provider := flag.String("provider", "", "Snapshot provider (e.g. serpapi)")
	hotel := flag.String("hotel", "", "Hotel name")
	label := flag.String("label", "", "Check-in label (Today, Tomorrow, Friday)")
	dir := flag.String("dir", "data", "Directory holding debug snapshots")
	all := flag.Bool("all", false, "Match every snapshot")
	yes := flag.Bool("yes", false, "Skip confirmation")
	flag.Parse()

	// Check if at least one filter flag was explicitly provided
	hasFilters := *all
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "provider" || f.Name == "hotel" || f.Name == "label" {
			hasFilters = true
		}
	})
	if !hasFilters {
		fmt.Fprintf(os.Stderr, "Error: at least one filter is required (-provider, -hotel, -label, or -all)\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	snapshots := storage.NewSnapshotWriter(*dir)
	filter := storage.SnapshotFilter{Provider: *provider, Hotel: *hotel, Label: *label}

	paths, err := snapshots.Match(filter)
	if err != nil {
		logger.Error("Match failed", "filter", filter, "err", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		logger.Warn("No snapshots matched the filters", "filter", filter)
		return
	}

	fmt.Println("\nSnapshots to delete:")
	for _, p := range paths {
		fmt.Printf("  %s\n", filepath.Base(p))
	}

	if !*yes {
		fmt.Print("\nAre you sure? (yes/no): ")
		reader := bufio.NewReader(os.Stdin)
		response, _ := reader.ReadString('\n')
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "yes" && response != "y" {
			fmt.Println("Cancelled.")
			os.Exit(0)
		}
	}

	removed, err := snapshots.Remove(paths)
	if err != nil {
		logger.Error("Delete failed", "removed", removed, "err", err)
		os.Exit(1)
	}
	logger.Info("Deleted successfully", "removed", removed)
}
