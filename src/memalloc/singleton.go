package memalloc

import "unsafe"

// defaultPool is the process-wide allocator the package-level
// functions below delegate to, giving callers a global-allocator-style
// API without forcing every caller to carry a *Pool around. Pool
// itself remains the instantiable, testable unit: tests construct
// their own Pool values rather than exercising a shared global.
var defaultPool Pool

// Allocate delegates to the package-default Pool. See (*Pool).Allocate.
func Allocate(size int) (unsafe.Pointer, error) {
	return defaultPool.Allocate(size)
}

// Free delegates to the package-default Pool. See (*Pool).Free.
func Free(ptr unsafe.Pointer) {
	defaultPool.Free(ptr)
}

// Callocate delegates to the package-default Pool. See (*Pool).Callocate.
func Callocate(count, elemSize int) (unsafe.Pointer, error) {
	return defaultPool.Callocate(count, elemSize)
}

// Reallocate delegates to the package-default Pool. See (*Pool).Reallocate.
func Reallocate(ptr unsafe.Pointer, newSize int) (unsafe.Pointer, error) {
	return defaultPool.Reallocate(ptr, newSize)
}

// Teardown delegates to the package-default Pool. See (*Pool).Teardown.
func Teardown() error {
	return defaultPool.Teardown()
}

// Snapshot delegates to the package-default Pool. See (*Pool).Snapshot.
func Snapshot() []BlockInfo {
	return defaultPool.Snapshot()
}
