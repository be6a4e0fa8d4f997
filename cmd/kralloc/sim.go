package main

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/joshuapare/kralloc/alloc"
	"github.com/joshuapare/kralloc/cmd/kralloc/logger"
	"github.com/spf13/cobra"
)

// simConfig describes a seeded random workload.
type simConfig struct {
	heapConfig
	Ops     int
	Seed    int64
	MaxSize int
	FreePct int
	Drain   bool
	Blocks  bool
}

func init() {
	rootCmd.AddCommand(newSimCmd())
}

func newSimCmd() *cobra.Command {
	cfg := simConfig{heapConfig: defaultHeapConfig()}
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run a seeded random allocate/release workload",
		Long: `The sim command runs a reproducible random workload against a fresh
heap and reports allocator statistics and free-list shape. The free-list
invariants are checked after the run.

Example:
  kralloc sim --ops 100000 --seed 7
  kralloc sim --max-size 65536 --free-pct 40 --json
  kralloc sim --limit 1048576 --min-grow 64 --blocks`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := runSim(cfg)
			if err != nil {
				return err
			}
			return printReport("Simulation", r)
		},
	}
	cmd.Flags().IntVar(&cfg.Ops, "ops", 10000, "Number of operations")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", 1, "Random seed")
	cmd.Flags().IntVar(&cfg.MaxSize, "max-size", 4096, "Largest request in bytes")
	cmd.Flags().IntVar(&cfg.FreePct, "free-pct", 45, "Percentage of operations that release a live block")
	cmd.Flags().BoolVar(&cfg.Drain, "drain", false, "Release every live block before reporting")
	cmd.Flags().BoolVar(&cfg.Blocks, "blocks", false, "List free blocks in the report")
	addHeapFlags(cmd, &cfg.heapConfig)
	return cmd
}

// addHeapFlags registers the segment and allocator flags on cmd.
func addHeapFlags(cmd *cobra.Command, cfg *heapConfig) {
	cmd.Flags().IntVar(&cfg.Limit, "limit", cfg.Limit, "Segment reservation in bytes")
	cmd.Flags().IntVar(&cfg.MinGrowUnits, "min-grow", cfg.MinGrowUnits, "Minimum growth in 16-byte units")
	cmd.Flags().BoolVar(&cfg.Checked, "checked", false, "Tag blocks so invalid releases are reported")
}

func runSim(cfg simConfig) (*Report, error) {
	if cfg.Ops < 0 || cfg.MaxSize < 0 || cfg.FreePct < 0 || cfg.FreePct > 100 {
		return nil, fmt.Errorf("invalid workload: ops=%d max-size=%d free-pct=%d", cfg.Ops, cfg.MaxSize, cfg.FreePct)
	}

	h, err := openHeap(cfg.heapConfig)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	printVerbose("Running %d operations (seed %d)\n", cfg.Ops, cfg.Seed)

	rng := rand.New(rand.NewSource(cfg.Seed))
	var live []alloc.Ref
	r := &Report{}
	for i := 0; i < cfg.Ops; i++ {
		r.Ops++
		if len(live) > 0 && rng.Intn(100) < cfg.FreePct {
			k := rng.Intn(len(live))
			if err := h.a.Free(live[k]); err != nil {
				return nil, fmt.Errorf("op %d: %w", i, err)
			}
			live[k] = live[len(live)-1]
			live = live[:len(live)-1]
			r.Frees++
			continue
		}

		n := rng.Intn(cfg.MaxSize + 1)
		ref, _, err := h.a.Alloc(n)
		if errors.Is(err, alloc.ErrNoSpace) {
			logger.Warn("allocation failed", "op", i, "size", n, "err", err)
			r.Failed++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("op %d: %w", i, err)
		}
		live = append(live, ref)
		r.Allocs++
	}

	if cfg.Drain {
		for _, ref := range live {
			if err := h.a.Free(ref); err != nil {
				return nil, err
			}
			r.Frees++
		}
		live = nil
	}

	snap, err := newReport(h, cfg.Blocks)
	if err != nil {
		return nil, err
	}
	snap.Ops, snap.Allocs, snap.Frees, snap.Failed = r.Ops, r.Allocs, r.Frees, r.Failed
	snap.Live = len(live)
	return snap, nil
}
