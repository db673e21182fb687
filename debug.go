package windsway

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// debugStats holds per-frame timing and raster metrics.
// Only populated when the compositor is in debug mode.
type debugStats struct {
	flattenTime time.Duration
	deformTime  time.Duration
	rasterTime  time.Duration
	layerCount  int
	stageCount  int
	triangles   int
	pooled      int
}

// debugLog reports stats at debug level.
func (c *Compositor) debugLog(stats debugStats) {
	if !c.debug {
		return
	}
	total := stats.flattenTime + stats.deformTime + stats.rasterTime
	c.logger.Debug("frame",
		"flatten", stats.flattenTime,
		"deform", stats.deformTime,
		"raster", stats.rasterTime,
		"total", total)
	c.logger.Debug("frame counts",
		"layers", stats.layerCount,
		"stages", stats.stageCount,
		"triangles", stats.triangles,
		"pooled", stats.pooled)
}

// discardLogger is the default for library types until SetLogger is called.
func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

// globalDebug mirrors the most recently set debug flag so that node
// operations (which lack a Compositor pointer) can check it cheaply.
var globalDebug bool

// SetDebugMode enables or disables tree sanity checks. When enabled,
// operations on disposed nodes panic and deep trees or wide folders are
// reported as warnings.
func SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("windsway debug: %s on disposed node %q", op, n.Name))
	}
}

const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		log.Warn("tree depth exceeds threshold", "depth", depth, "threshold", debugMaxTreeDepth, "node", n.Name)
	}
}

const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		log.Warn("folder has too many children", "node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}
