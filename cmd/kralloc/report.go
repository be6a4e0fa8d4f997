package main

import (
	"github.com/joshuapare/kralloc/alloc"
	"github.com/joshuapare/kralloc/cmd/kralloc/logger"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Report summarises a finished workload.
type Report struct {
	Ops           int           `json:"ops"`
	Allocs        int           `json:"allocs"`
	Frees         int           `json:"frees"`
	Failed        int           `json:"failed"`
	Live          int           `json:"live"`
	SegmentLen    int           `json:"segment_len"`
	SegmentCap    int           `json:"segment_cap"`
	FreeBlocks    int           `json:"free_blocks"`
	FreeBytes     int64         `json:"free_bytes"`
	LargestFree   int           `json:"largest_free"`
	Fragmentation float64       `json:"fragmentation"`
	Stats         alloc.Stats   `json:"stats"`
	Blocks        []alloc.Block `json:"blocks,omitempty"`
}

// newReport captures the heap state after a workload.
func newReport(h *heap, withBlocks bool) (*Report, error) {
	if err := h.a.Check(); err != nil {
		return nil, err
	}
	blocks := h.a.FreeBlocks()
	r := &Report{
		SegmentLen: h.seg.Len(),
		SegmentCap: h.seg.Cap(),
		FreeBlocks: len(blocks),
		Stats:      h.a.Stats(),
	}
	for _, b := range blocks {
		r.FreeBytes += int64(b.Size)
		r.LargestFree = max(r.LargestFree, b.Size)
	}
	if r.FreeBytes > 0 {
		r.Fragmentation = 1 - float64(r.LargestFree)/float64(r.FreeBytes)
	}
	if withBlocks {
		r.Blocks = blocks
	}
	logger.Info("free list checked",
		"segment_len", r.SegmentLen,
		"free_blocks", r.FreeBlocks,
		"free_bytes", r.FreeBytes,
		"grow_calls", r.Stats.GrowCalls)
	return r, nil
}

func printReport(title string, r *Report) error {
	if jsonOut {
		return printJSON(r)
	}

	p := message.NewPrinter(language.English)
	out := func(format string, args ...any) {
		printInfo("%s", p.Sprintf(format, args...))
	}
	s := r.Stats
	printInfo("\n%s:\n", title)
	out("  Operations:     %d (%d allocs, %d frees, %d failed)\n", r.Ops, r.Allocs, r.Frees, r.Failed)
	out("  Live blocks:    %d (%d bytes)\n", r.Live, s.BytesInUse)
	out("  Segment:        %d of %d bytes\n", r.SegmentLen, r.SegmentCap)
	out("  Free list:      %d blocks, %d bytes, largest %d\n", r.FreeBlocks, r.FreeBytes, r.LargestFree)
	out("  Fragmentation:  %.1f%%\n", r.Fragmentation*100)
	out("  Fast/slow path: %d / %d\n", s.AllocFastPath, s.AllocSlowPath)
	out("  Splits:         %d\n", s.Splits)
	out("  Coalesce:       %d forward, %d backward\n", s.CoalesceForward, s.CoalesceBackward)
	out("  Growth:         %d calls, %d bytes\n", s.GrowCalls, s.GrowBytes)

	if len(r.Blocks) > 0 {
		printInfo("\nFree blocks:\n")
		for _, b := range r.Blocks {
			out("  0x%08X  %d bytes\n", b.Offset, b.Size)
		}
	}
	return nil
}
