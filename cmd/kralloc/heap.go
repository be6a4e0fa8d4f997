package main

import (
	"fmt"

	"github.com/joshuapare/kralloc/alloc"
	"github.com/joshuapare/kralloc/cmd/kralloc/logger"
	"github.com/joshuapare/kralloc/segment"
)

// heapConfig holds the flags shared by every command that builds a heap.
type heapConfig struct {
	Limit        int
	MinGrowUnits int
	Checked      bool
}

func defaultHeapConfig() heapConfig {
	return heapConfig{
		Limit:        64 << 20,
		MinGrowUnits: alloc.DefaultMinGrowUnits,
	}
}

// heap is a reserved segment plus the allocator growing into it.
type heap struct {
	seg *segment.Segment
	a   *alloc.FreeListAllocator
}

func openHeap(cfg heapConfig) (*heap, error) {
	seg, err := segment.Reserve(cfg.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve segment: %w", err)
	}
	a, err := alloc.New(seg, &alloc.Config{
		MinGrowUnits: cfg.MinGrowUnits,
		Checked:      cfg.Checked,
		Logger:       logger.L,
	})
	if err != nil {
		seg.Close()
		return nil, fmt.Errorf("failed to create allocator: %w", err)
	}
	logger.Debug("heap ready", "limit", seg.Cap(), "min_grow_units", cfg.MinGrowUnits, "checked", cfg.Checked)
	return &heap{seg: seg, a: a}, nil
}

func (h *heap) Close() error {
	return h.seg.Close()
}
