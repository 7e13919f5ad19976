package history

import (
	"fmt"
	"sync"
	"testing"
)

func TestAppendAndHistory(t *testing.T) {
	s := NewBounded()

	turn := Turn{Role: RoleUser, Content: "hello"}
	s.Append("sess", turn)

	got := s.History("sess")
	if len(got) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(got))
	}
	if got[0] != turn {
		t.Errorf("round-trip mismatch: got %+v", got[0])
	}
}

// TestEviction: more than MaxTurns appends keep exactly the last MaxTurns,
// in original order.
func TestEviction(t *testing.T) {
	s := NewBounded()

	const n = 25
	for i := 0; i < n; i++ {
		s.Append("sess", Turn{Role: RoleUser, Content: fmt.Sprintf("msg-%02d", i)})
	}

	got := s.History("sess")
	if len(got) != MaxTurns {
		t.Fatalf("expected %d turns after %d appends, got %d", MaxTurns, n, len(got))
	}
	for i, turn := range got {
		want := fmt.Sprintf("msg-%02d", n-MaxTurns+i)
		if turn.Content != want {
			t.Errorf("turn %d = %q, want %q", i, turn.Content, want)
		}
	}
}

func TestReset(t *testing.T) {
	s := NewBounded()
	s.Append("a", Turn{Role: RoleUser, Content: "one"})
	s.Append("b", Turn{Role: RoleUser, Content: "two"})

	s.Reset("a")

	if len(s.History("a")) != 0 {
		t.Error("expected session a to be empty after reset")
	}
	if len(s.History("b")) != 1 {
		t.Error("expected session b to be untouched by resetting a")
	}
}

func TestSessionIsolation(t *testing.T) {
	s := NewBounded()
	s.Append("call:CA1", Turn{Role: RoleUser, Content: "phone"})
	s.Append("web-chat", Turn{Role: RoleUser, Content: "web"})

	if got := s.History("call:CA1"); len(got) != 1 || got[0].Content != "phone" {
		t.Errorf("call session polluted: %+v", got)
	}
	if got := s.History("web-chat"); len(got) != 1 || got[0].Content != "web" {
		t.Errorf("web session polluted: %+v", got)
	}
}

// TestHistoryCopy: mutating the returned slice must not affect the store
func TestHistoryCopy(t *testing.T) {
	s := NewBounded()
	s.Append("sess", Turn{Role: RoleUser, Content: "original"})

	got := s.History("sess")
	got[0].Content = "mutated"

	if s.History("sess")[0].Content != "original" {
		t.Error("History returned a view into internal state")
	}
}

// TestConcurrentAppend: concurrent appends to different sessions never lose
// entries; appends within a session stay within the cap.
func TestConcurrentAppend(t *testing.T) {
	s := NewBounded()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			session := fmt.Sprintf("sess-%d", g%4)
			for i := 0; i < 50; i++ {
				s.Append(session, Turn{Role: RoleUser, Content: "x"})
			}
		}(g)
	}
	wg.Wait()

	for g := 0; g < 4; g++ {
		if got := len(s.History(fmt.Sprintf("sess-%d", g))); got != MaxTurns {
			t.Errorf("session %d has %d turns, want %d", g, got, MaxTurns)
		}
	}
	if s.Len() != 4 {
		t.Errorf("expected 4 sessions, got %d", s.Len())
	}
}
