package metrics

import "runtime"

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc   uint64 // bytes in use by the process heap
	HeapSys     uint64 // bytes obtained from the OS for the heap
	Sys         uint64 // total bytes obtained from the OS
	NumGC       uint32 // completed GC cycles
	Goroutines  int    // live goroutines, workers included
	HeapObjects uint64 // allocated heap objects
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads the current statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:   m.HeapAlloc,
		HeapSys:     m.HeapSys,
		Sys:         m.Sys,
		NumGC:       m.NumGC,
		Goroutines:  runtime.NumGoroutine(),
		HeapObjects: m.HeapObjects,
	}
}

// Delta returns the growth between two snapshots. Counters that shrank
// (a GC ran in between) report zero.
func (s MemorySnapshot) Delta(before MemorySnapshot) MemorySnapshot {
	sub := func(a, b uint64) uint64 {
		if a < b {
			return 0
		}
		return a - b
	}
	return MemorySnapshot{
		HeapAlloc:   sub(s.HeapAlloc, before.HeapAlloc),
		HeapSys:     sub(s.HeapSys, before.HeapSys),
		Sys:         sub(s.Sys, before.Sys),
		NumGC:       uint32(sub(uint64(s.NumGC), uint64(before.NumGC))),
		Goroutines:  max(s.Goroutines-before.Goroutines, 0),
		HeapObjects: sub(s.HeapObjects, before.HeapObjects),
	}
}
