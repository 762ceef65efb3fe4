package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	mtimesort "github.com/krisalay/mtime-sort"
	"github.com/krisalay/mtime-sort/host"
	"github.com/krisalay/mtime-sort/memsource"
	"github.com/krisalay/mtime-sort/ordering"
	"github.com/krisalay/mtime-sort/types"
)

// ================= BENCHMARK =================

func main() {
	ctx := context.Background()

	fmt.Println("\n================ SORT PASS BENCHMARK =================")

	// ---------------- Config ----------------
	const (
		items        = 5000
		latency      = 200 * time.Microsecond
		queryTimeout = 50 * time.Millisecond
		brokenEvery  = 50
		passes       = 5
	)

	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Items         :", items)
	fmt.Println("Query latency :", latency)
	fmt.Println("Query timeout :", queryTimeout)
	fmt.Println("Broken items  : 1 in", brokenEvery)
	fmt.Println("Warm passes   :", passes)

	// ---------------- Items ----------------
	src := memsource.New(latency)
	rng := rand.New(rand.NewSource(1))
	base := time.Now().Add(-365 * 24 * time.Hour)

	all := make([]types.Item, items)
	for i := range all {
		it := memsource.NewItem(fmt.Sprintf("img-%05d.jpg", i), base.Add(time.Duration(rng.Int63n(int64(365*24*time.Hour)))))
		it.Broken = i%brokenEvery == 0
		all[i] = it
	}

	window := host.NewBasicWindow()
	store := host.NewListStore(ordering.ComparatorOf(ordering.NewFallbackPolicy(src)))
	store.Add(all...)
	window.Bind(store)

	metrics := &types.Counters{}
	sorter := mtimesort.NewSorter(src, mtimesort.Options{
		QueryTimeout: queryTimeout,
		Metrics:      metrics,
		Logger:       slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	})

	// ---------------- Cold pass ----------------
	start := time.Now()
	if err := sorter.Activate(ctx, window); err != nil {
		fmt.Println("activate failed:", err)
		os.Exit(1)
	}
	cold := time.Since(start)
	coldQueries := src.Queries()

	// ---------------- Warm passes ----------------
	start = time.Now()
	for i := 0; i < passes; i++ {
		store.Sort()
	}
	warm := time.Since(start) / passes

	stats := metrics.Snapshot()
	sorter.Deactivate()

	fmt.Println("\nRESULTS")
	fmt.Println("---------------------------------")
	fmt.Println("Cold pass        :", cold)
	fmt.Println("Warm pass (avg)  :", warm)
	fmt.Println("Queries (cold)   :", coldQueries)
	fmt.Println("Queries (warm)   :", src.Queries()-coldQueries)
	fmt.Println("Hits             :", stats.Hits)
	fmt.Println("Misses           :", stats.Misses)
	fmt.Println("Unresolved       :", stats.Unresolved)
	fmt.Println("Released entries :", metrics.Snapshot().Cleared)
}
