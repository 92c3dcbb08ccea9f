// Command memalloc-bench compares memalloc.Pool against Go's builtin
// allocator for a handful of workloads: a single small allocation, two
// allocations held live at the same time, and a reuse-after-free cycle.
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/dcaldwell/memalloc/src/memalloc"
)

const (
	ansiBlue  = "\x1b[34m"
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

func printMetrics(label string, mine, builtin time.Duration) {
	color := ansiGreen
	if mine > builtin {
		color = ansiRed
	}
	fmt.Printf("%s%s%s: %s%v%s | builtin: %v\n", ansiBlue, label, ansiReset, color, mine, ansiReset, builtin)
}

func timeIt(f func()) time.Duration {
	start := time.Now()
	f()
	return time.Since(start)
}

func benchBasicAllocate(pool *memalloc.Pool, iterations int) (mine, builtin time.Duration) {
	for i := 0; i < iterations; i++ {
		mine += timeIt(func() {
			p, err := pool.Allocate(4)
			if err != nil {
				fmt.Println("allocate failed:", err)
				return
			}
			pool.Free(p)
		})
		builtin += timeIt(func() {
			b := make([]byte, 4)
			_ = b
		})
	}
	return mine / time.Duration(iterations), builtin / time.Duration(iterations)
}

func benchMultipleAllocations(pool *memalloc.Pool, iterations int) (mine, builtin time.Duration) {
	for i := 0; i < iterations; i++ {
		mine += timeIt(func() {
			b, err1 := pool.Allocate(8)
			c, err2 := pool.Allocate(12)
			if err1 != nil || err2 != nil {
				fmt.Println("allocate failed")
				return
			}
			pool.Free(b)
			pool.Free(c)
		})
		builtin += timeIt(func() {
			b := make([]byte, 8)
			c := make([]byte, 12)
			_, _ = b, c
		})
	}
	return mine / time.Duration(iterations), builtin / time.Duration(iterations)
}

func benchReuseAfterFree(pool *memalloc.Pool, iterations int) (mine, builtin time.Duration) {
	for i := 0; i < iterations; i++ {
		mine += timeIt(func() {
			x, err := pool.Allocate(4)
			if err != nil {
				fmt.Println("allocate failed:", err)
				return
			}
			pool.Free(x)
			y, err := pool.Allocate(4)
			if err != nil {
				fmt.Println("allocate failed:", err)
				return
			}
			pool.Free(y)
		})
		builtin += timeIt(func() {
			x := make([]byte, 4)
			_ = x
			y := make([]byte, 4)
			_ = y
		})
	}
	return mine / time.Duration(iterations), builtin / time.Duration(iterations)
}

func main() {
	iterations := flag.Int("iterations", 5000, "iterations averaged per case")
	flag.Parse()

	pool := &memalloc.Pool{}
	defer pool.Teardown()

	m1, b1 := benchBasicAllocate(pool, *iterations)
	printMetrics("allocate(1 alloc, 4 bytes)", m1, b1)

	m2, b2 := benchMultipleAllocations(pool, *iterations)
	printMetrics("allocate(2 allocs, 8/12 bytes)", m2, b2)

	m3, b3 := benchReuseAfterFree(pool, *iterations)
	printMetrics("reuse-after-free(4 bytes)", m3, b3)
}
