package memalloc

import "unsafe"

// blockHeader is the in-band metadata record stored immediately before
// every block's payload. prev/next are meaningful only while the
// block is on the free list; they are cleared to nil when a block
// leaves the list or is bump-allocated, and are unused while a caller
// holds the block.
//
// It is stored with Go's unsafe.Pointer/uintptr arithmetic, the same
// technique used to cast an mmap'd region to a typed pointer.
type blockHeader struct {
	size   uintptr
	isFree bool
	prev   *blockHeader
	next   *blockHeader
}

// headerSize is the in-band header's footprint.
const headerSize = unsafe.Sizeof(blockHeader{})

// blockAt reinterprets an address within the pool as a block header.
// Callers must guarantee addr actually begins a valid header.
func blockAt(addr uintptr) *blockHeader {
	return (*blockHeader)(unsafe.Pointer(addr))
}

func (b *blockHeader) addr() uintptr {
	return uintptr(unsafe.Pointer(b))
}

// payload returns the address immediately following the header, the
// pointer handed to (or received back from) a caller.
func (b *blockHeader) payload() unsafe.Pointer {
	return unsafe.Pointer(b.addr() + headerSize)
}

// headerFromPayload is payload's inverse: derive the block header
// address as p - headerSize.
func headerFromPayload(ptr unsafe.Pointer) *blockHeader {
	return blockAt(uintptr(ptr) - headerSize)
}

// initHeader writes size, marks the block free, and clears its list
// links.
func initHeader(b *blockHeader, size uintptr) {
	b.size = size
	b.isFree = true
	b.prev = nil
	b.next = nil
}

// adjacent reports whether first's block ends exactly where second's
// block begins. This is the physical-adjacency test coalesce and the
// grow-in-place realloc path both use.
func adjacent(first, second *blockHeader) bool {
	return first.addr()+headerSize+first.size == second.addr()
}

// unlink splices block out of the free list if and only if it is
// actually on it, confirmed by a linear membership scan rather than
// trusting isFree alone. A block not currently on the list (including
// a nil block) is left untouched.
func (p *Pool) unlink(block *blockHeader) {
	if block == nil {
		return
	}

	found := false
	for cur := p.head; cur != nil; cur = cur.next {
		if cur == block {
			found = true
			break
		}
	}
	if !found {
		return
	}

	if block.prev != nil {
		block.prev.next = block.next
	} else {
		p.head = block.next
	}
	if block.next != nil {
		block.next.prev = block.prev
	}

	block.prev = nil
	block.next = nil
	block.isFree = false
}

// addToFreeList links block at the head of the free list (LIFO order)
// and then attempts to coalesce it with any physically adjacent free
// neighbor. It first defensively unlinks block in case it was already
// on the list, mirroring add_to_free_mem_block_list's own defensive
// call to remove_from_free_mem_list before relinking.
func (p *Pool) addToFreeList(block *blockHeader) {
	if block == nil {
		return
	}

	p.unlink(block)

	block.isFree = true
	block.prev = nil
	block.next = p.head
	if p.head != nil {
		p.head.prev = block
	}
	p.head = block

	p.coalesceWithNeighbors(block)
}

// coalesceWithNeighbors merges block with any free neighbor physically
// adjacent to either of its sides, repeating until no further merge is
// found. A block can have at most two physical neighbors, one on each
// side, so the loop below always terminates in at most three passes
// over the list: stopping after the first merge would leave two
// physically adjacent free blocks on the list when a block is freed
// between two already-free neighbors, so this keeps merging until
// stable instead of returning after the first hit.
func (p *Pool) coalesceWithNeighbors(block *blockHeader) {
	for {
		merged := false
		for cur := p.head; cur != nil; cur = cur.next {
			if cur == block {
				continue
			}
			if adjacent(block, cur) {
				// block ends where cur begins: block absorbs cur.
				block.size += headerSize + cur.size
				p.unlink(cur)
				merged = true
				break // list mutated; restart the scan
			}
			if adjacent(cur, block) {
				// cur ends where block begins: cur absorbs block.
				cur.size += headerSize + block.size
				p.unlink(block)
				block = cur
				merged = true
				break
			}
		}
		if !merged {
			return
		}
	}
}
