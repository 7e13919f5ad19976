package audit

import (
	"testing"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestCallLifecycle(t *testing.T) {
	l := openTestLog(t)

	l.CallStarted("CA123", "+15550001111", false)
	l.TurnRecorded("CA123", "hello", "Hi! How can I help?")
	l.TurnRecorded("CA123", "tell me a joke", "Why did the gopher cross the road?")
	l.CallEnded("CA123")

	n, err := l.TurnCount("CA123")
	if err != nil {
		t.Fatalf("TurnCount failed: %v", err)
	}
	if n != 2 {
		t.Errorf("TurnCount = %d, want 2", n)
	}

	var from string
	var outbound int
	var ended any
	err = l.db.QueryRow(`SELECT from_num, outbound, ended_at FROM calls WHERE call_id = ?`, "CA123").
		Scan(&from, &outbound, &ended)
	if err != nil {
		t.Fatalf("call row missing: %v", err)
	}
	if from != "+15550001111" || outbound != 0 {
		t.Errorf("call row = (%q, %d)", from, outbound)
	}
	if ended == nil {
		t.Error("ended_at not set after CallEnded")
	}
}

// TestCallStartedIdempotent: duplicate start events (webhook retries) keep one row
func TestCallStartedIdempotent(t *testing.T) {
	l := openTestLog(t)

	l.CallStarted("CA123", "+1", false)
	l.CallStarted("CA123", "+1", false)

	var n int
	if err := l.db.QueryRow(`SELECT COUNT(*) FROM calls`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 call row, got %d", n)
	}
}

func TestOutboundFlag(t *testing.T) {
	l := openTestLog(t)

	l.CallStarted("CA900", "", true)

	var outbound int
	if err := l.db.QueryRow(`SELECT outbound FROM calls WHERE call_id = ?`, "CA900").Scan(&outbound); err != nil {
		t.Fatal(err)
	}
	if outbound != 1 {
		t.Errorf("outbound = %d, want 1", outbound)
	}
}

func TestTurnCountEmpty(t *testing.T) {
	l := openTestLog(t)

	n, err := l.TurnCount("CA-never-seen")
	if err != nil {
		t.Fatalf("TurnCount failed: %v", err)
	}
	if n != 0 {
		t.Errorf("TurnCount = %d, want 0", n)
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()

	l, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	l.CallStarted("CA123", "+1", false)
	l.TurnRecorded("CA123", "hi", "hello")
	l.Close()

	l2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer l2.Close()

	n, err := l2.TurnCount("CA123")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("TurnCount after reopen = %d, want 1", n)
	}
}
