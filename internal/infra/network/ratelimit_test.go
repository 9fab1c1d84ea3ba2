package network

import (
	"testing"
	"time"
)

func TestTokenBucketBurstThenDeny(t *testing.T) {
	b := NewTokenBucket(3, 0)
	now := time.Now()
	for i := 0; i < 3; i++ {
		if !b.Allow(now) {
			t.Fatalf("expected allow within burst, denied at %d", i)
		}
	}
	if b.Allow(now) {
		t.Fatalf("expected deny once burst is spent")
	}
}

func TestTokenBucketRefills(t *testing.T) {
	b := NewTokenBucket(1, 10)
	now := time.Now()
	if !b.Allow(now) {
		t.Fatalf("expected first call allowed")
	}
	if b.Allow(now) {
		t.Fatalf("expected deny immediately after")
	}
	if !b.Allow(now.Add(200 * time.Millisecond)) {
		t.Fatalf("expected allow after refill interval")
	}
}
