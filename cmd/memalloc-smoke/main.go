// Command memalloc-smoke exercises a handful of concrete allocator
// scenarios end to end against a fresh Pool and reports pass/fail for
// each.
package main

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/dcaldwell/memalloc/src/memalloc"
	"github.com/dcaldwell/memalloc/src/memalloc/memdump"
)

type check struct {
	name string
	run  func(pool *memalloc.Pool) error
}

func fail(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

var checks = []check{
	{
		name: "reuse-after-free",
		run: func(pool *memalloc.Pool) error {
			p1, err := pool.Allocate(4)
			if err != nil {
				return err
			}
			pool.Free(p1)
			p2, err := pool.Allocate(4)
			if err != nil {
				return err
			}
			if p1 != p2 {
				return fail("expected reuse of %p, got %p", p1, p2)
			}
			return nil
		},
	},
	{
		name: "split-on-reuse",
		run: func(pool *memalloc.Pool) error {
			p, err := pool.Allocate(1000)
			if err != nil {
				return err
			}
			pool.Free(p)
			if _, err := pool.Allocate(16); err != nil {
				return err
			}
			free := memdump.FreeBlocks(pool)
			if len(free) != 1 {
				return fail("expected exactly one free block after split, got %d", len(free))
			}
			return nil
		},
	},
	{
		name: "callocate-zeroes",
		run: func(pool *memalloc.Pool) error {
			ptr, err := pool.Callocate(5, 4)
			if err != nil {
				return err
			}
			words := unsafe.Slice((*uint32)(ptr), 5)
			for i, w := range words {
				if w != 0 {
					return fail("word %d not zero: %d", i, w)
				}
			}
			if _, err := pool.Callocate(0, 4); err == nil {
				return fail("callocate(0, 4) should fail")
			}
			return nil
		},
	},
	{
		name: "realloc-grow-in-place",
		run: func(pool *memalloc.Pool) error {
			p, err := pool.Allocate(8)
			if err != nil {
				return err
			}
			filler, err := pool.Allocate(64)
			if err != nil {
				return err
			}
			pool.Free(filler) // now adjacent to p's tail and free

			ints := unsafe.Slice((*int32)(p), 2)
			ints[0], ints[1] = 1, 2
			q, err := pool.Reallocate(p, 20)
			if err != nil {
				return err
			}
			if q != p {
				return fail("expected grow-in-place to keep %p, got %p", p, q)
			}
			return nil
		},
	},
	{
		name: "out-of-memory-boundary",
		run: func(pool *memalloc.Pool) error {
			if _, err := pool.Allocate(memalloc.PoolBytes); err == nil {
				return fail("allocate(PoolBytes) should fail")
			}
			if _, err := pool.Allocate(1); err != nil {
				return fail("a 1-byte allocation should still succeed on a fresh pool: %v", err)
			}
			return nil
		},
	},
}

func main() {
	exit := 0
	for _, c := range checks {
		pool := &memalloc.Pool{}
		err := c.run(pool)
		pool.Teardown()

		if err != nil {
			fmt.Printf("FAIL %s: %v\n", c.name, err)
			exit = 1
			continue
		}
		fmt.Printf("PASS %s\n", c.name)
	}
	os.Exit(exit)
}
