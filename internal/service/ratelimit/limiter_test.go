package ratelimit

import (
	"fmt"
	"testing"
	"time"
)

func TestAllowConsumesAndRefuses(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("k", 3, 0) {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if l.Allow("k", 3, 0) {
		t.Fatalf("bucket exhausted, request should be refused")
	}
}

func TestAllowRefills(t *testing.T) {
	l := New()
	if !l.Allow("k", 1, 1000) {
		t.Fatalf("first request should be allowed")
	}
	time.Sleep(5 * time.Millisecond)
	if !l.Allow("k", 1, 1000) {
		t.Fatalf("bucket should have refilled")
	}
}

func TestSweepEvictsIdleBuckets(t *testing.T) {
	l := New()
	l.Allow("stale", 1, 1)
	l.m["stale"].last = time.Now().Add(-time.Hour)

	// grow the map past the sweep trigger
	for i := 0; i <= sweepAt; i++ {
		l.Allow(fmt.Sprintf("k%d", i), 1, 1)
	}
	l.mu.Lock()
	_, ok := l.m["stale"]
	size := len(l.m)
	l.mu.Unlock()
	if ok {
		t.Fatalf("idle bucket should have been evicted")
	}
	if size > sweepAt+1 {
		t.Fatalf("map did not shrink: %d entries", size)
	}
}
