// Package memalloc implements a byte-granular dynamic memory allocator
// over a single fixed-size pool obtained once from the operating
// system. It exposes the classical allocate/free/callocate/reallocate
// interface and manages placement, coalescing, splitting, and thread
// safety internally.
package memalloc

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// PoolBytes is the size, in bytes, of the backing region acquired for
// a Pool. The allocator never grows the pool and never returns pages
// to the OS.
const PoolBytes = 1 << 20 // 1 MiB

// regionProvider is the OS-facing collaborator the pool core uses to
// acquire and release its backing memory. It is a one-shot interface:
// acquire is called at most once per Pool lifetime (until Teardown
// resets it), and the returned release func is called at most once.
type regionProvider interface {
	acquire(size uintptr) (base uintptr, release func() error, err error)
}

// mmapProvider acquires an anonymous, private, writable region via
// golang.org/x/sys/unix.
type mmapProvider struct{}

func (mmapProvider) acquire(size uintptr) (uintptr, func() error, error) {
	data, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return 0, nil, err
	}
	base := uintptr(unsafe.Pointer(&data[0]))
	release := func() error {
		return unix.Munmap(data)
	}
	return base, release, nil
}

// Pool is a single allocation arena: a contiguous backing region plus
// the bump frontier and free list carved out of it. The zero value is
// ready for use (the backing region is acquired lazily on first use),
// so a bare `var pool Pool` works without any constructor call.
type Pool struct {
	mu       sync.Mutex
	provider regionProvider

	base    uintptr
	length  uintptr
	offset  uintptr
	head    *blockHeader
	release func() error
}

// ensurePool lazily acquires the backing region. Callers must hold
// p.mu. Idempotent: a Pool that already has a base returns immediately
// without side effects.
func (p *Pool) ensurePool() error {
	if p.base != 0 {
		return nil
	}
	if p.provider == nil {
		p.provider = mmapProvider{}
	}
	base, release, err := p.provider.acquire(PoolBytes)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPoolExhausted, err)
	}
	p.base = base
	p.length = PoolBytes
	p.offset = 0
	p.head = nil
	p.release = release
	return nil
}

// Teardown releases the pool's backing region and resets the pool to
// its zero state. It is safe to call on a pool that was never used.
// Go has no process-exit destructor hook comparable to the original
// C implementation's __attribute__((destructor)); callers that want
// teardown bound to process exit should `defer p.Teardown()` in main,
// the idiomatic Go equivalent.
func (p *Pool) Teardown() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.teardownLocked()
}

func (p *Pool) teardownLocked() error {
	if p.base == 0 {
		return nil
	}
	err := p.release()
	p.base = 0
	p.length = 0
	p.offset = 0
	p.head = nil
	p.release = nil
	return err
}

// BlockInfo describes one block in address order, used by Snapshot for
// diagnostics and by memdump for pretty-printing.
type BlockInfo struct {
	Offset uintptr
	Size   uintptr
	Free   bool
}

// Snapshot walks every block between base and the bump frontier in
// address order and reports its offset, payload size, and free state.
// It is the mechanical walk the debug dump routine needs; rendering it
// is left to the memdump package so the core has no formatting policy
// of its own.
func (p *Pool) Snapshot() []BlockInfo {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.base == 0 {
		return nil
	}

	var blocks []BlockInfo
	addr := p.base
	for addr < p.base+p.offset {
		b := blockAt(addr)
		blocks = append(blocks, BlockInfo{
			Offset: addr - p.base,
			Size:   b.size,
			Free:   b.isFree,
		})
		addr += headerSize + b.size
	}
	return blocks
}
