package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joshuapare/kralloc/alloc"
	"github.com/joshuapare/kralloc/cmd/kralloc/logger"
	"github.com/spf13/cobra"
)

// traceOp is one line of an allocation trace.
type traceOp struct {
	Line int
	Free bool
	ID   string
	Size int
}

func init() {
	rootCmd.AddCommand(newReplayCmd())
}

func newReplayCmd() *cobra.Command {
	cfg := defaultHeapConfig()
	var blocks bool
	cmd := &cobra.Command{
		Use:   "replay <trace>",
		Short: "Replay an allocation trace",
		Long: `The replay command runs an allocation trace against a fresh heap.
Each line is one operation; blank lines and lines starting with # are ignored:

  a <id> <bytes>   allocate and name the block <id>
  f <id>           release the block named <id>

Use "-" to read the trace from stdin.

Example:
  kralloc replay workload.trace
  kralloc replay workload.trace --min-grow 64 --blocks --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := io.Reader(os.Stdin)
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open trace: %w", err)
				}
				defer f.Close()
				in = f
			}
			ops, err := parseTrace(in)
			if err != nil {
				return err
			}
			r, err := runReplay(ops, cfg, blocks)
			if err != nil {
				return err
			}
			return printReport("Replay", r)
		},
	}
	cmd.Flags().BoolVar(&blocks, "blocks", false, "List free blocks in the report")
	addHeapFlags(cmd, &cfg)
	return cmd
}

// parseTrace reads trace operations from r.
func parseTrace(r io.Reader) ([]traceOp, error) {
	var ops []traceOp
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		switch {
		case fields[0] == "a" && len(fields) == 3:
			n, err := strconv.Atoi(fields[2])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("line %d: invalid size %q", line, fields[2])
			}
			ops = append(ops, traceOp{Line: line, ID: fields[1], Size: n})
		case fields[0] == "f" && len(fields) == 2:
			ops = append(ops, traceOp{Line: line, Free: true, ID: fields[1]})
		default:
			return nil, fmt.Errorf("line %d: cannot parse %q", line, text)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}
	return ops, nil
}

// runReplay applies ops to a fresh heap. Allocation failures are counted,
// and later releases of a failed id are errors like any unknown id.
func runReplay(ops []traceOp, cfg heapConfig, withBlocks bool) (*Report, error) {
	h, err := openHeap(cfg)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	live := make(map[string]alloc.Ref)
	r := &Report{}
	for _, op := range ops {
		r.Ops++
		if op.Free {
			ref, ok := live[op.ID]
			if !ok {
				return nil, fmt.Errorf("line %d: release of unknown block %q", op.Line, op.ID)
			}
			if err := h.a.Free(ref); err != nil {
				return nil, fmt.Errorf("line %d: %w", op.Line, err)
			}
			delete(live, op.ID)
			r.Frees++
			continue
		}

		if _, dup := live[op.ID]; dup {
			return nil, fmt.Errorf("line %d: block %q is already live", op.Line, op.ID)
		}
		ref, _, err := h.a.Alloc(op.Size)
		if errors.Is(err, alloc.ErrNoSpace) {
			logger.Warn("allocation failed", "line", op.Line, "id", op.ID, "size", op.Size)
			r.Failed++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", op.Line, err)
		}
		live[op.ID] = ref
		r.Allocs++
	}

	snap, err := newReport(h, withBlocks)
	if err != nil {
		return nil, err
	}
	snap.Ops, snap.Allocs, snap.Frees, snap.Failed = r.Ops, r.Allocs, r.Frees, r.Failed
	snap.Live = len(live)
	return snap, nil
}
