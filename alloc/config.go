package alloc

import (
	"log/slog"
	"os"
)

// DefaultMinGrowUnits is the default growth floor: 4096 units, 64KB.
const DefaultMinGrowUnits = 4096

// Config tunes a FreeListAllocator.
type Config struct {
	// MinGrowUnits is the fewest units requested from the segment per growth.
	MinGrowUnits int

	// Checked enables canary tagging of allocated blocks so Free can
	// reject foreign and repeated references.
	Checked bool

	// Logger receives growth and out-of-memory events at debug level.
	// Nil discards them unless KRALLOC_LOG_ALLOC is set in the environment.
	Logger *slog.Logger
}

// DefaultConfig is used when New is given a nil config.
var DefaultConfig = Config{
	MinGrowUnits: DefaultMinGrowUnits,
}

// Runtime logging toggle, mirrors the allocator logging switch used in tests and tools.
var logAlloc = os.Getenv("KRALLOC_LOG_ALLOC") != ""

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	if logAlloc {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.DiscardHandler)
}
