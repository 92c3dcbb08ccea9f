// Package memdump renders a memalloc.Pool's block chain for human
// inspection. It is deliberately kept outside the memalloc core,
// which exposes only the interface the core needs to (Pool.Snapshot)
// and leaves rendering policy to this package.
package memdump

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/dcaldwell/memalloc/src/memalloc"
)

// row is the structured record spew renders one line per: index,
// offset, size, and free state for a single block, letting spew own
// the formatting instead of hand-rolled printf verbs.
type row struct {
	Index  int
	Offset uintptr
	Size   uintptr
	Free   bool
}

// Dump renders every block in p, in address order, as a spew-formatted
// listing followed by a heap-usage summary line.
func Dump(p *memalloc.Pool) string {
	blocks := p.Snapshot()

	var b strings.Builder
	b.WriteString("block chain:\n")

	var used uintptr
	for i, info := range blocks {
		b.WriteString(spew.Sdump(row{
			Index:  i,
			Offset: info.Offset,
			Size:   info.Size,
			Free:   info.Free,
		}))
		used += info.Size
	}

	fmt.Fprintf(&b, "payload bytes live across %d block(s): %d\n", len(blocks), used)
	return b.String()
}

// FreeBlocks returns only the free blocks from p's snapshot, skipping
// blocks still reserved by a caller.
func FreeBlocks(p *memalloc.Pool) []memalloc.BlockInfo {
	var free []memalloc.BlockInfo
	for _, info := range p.Snapshot() {
		if info.Free {
			free = append(free, info)
		}
	}
	return free
}
