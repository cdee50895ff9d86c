package extension

import (
	"sync"
	"testing"
)

func TestServiceCollection_RegisterResolve(t *testing.T) {
	s := NewServiceCollection()

	if _, ok := s.Resolve("missing"); ok {
		t.Error("Resolve on empty collection reported a hit")
	}

	s.Register("player", "fake-player")
	v, ok := s.Resolve("player")
	if !ok || v != "fake-player" {
		t.Errorf("Resolve(player) = %v, %v", v, ok)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestServiceCollection_ReplaceKeepsPosition(t *testing.T) {
	s := NewServiceCollection()
	s.Register("player", 1)
	s.Register("queue", 2)
	s.Register("player", 3)

	names := s.Names()
	if len(names) != 2 || names[0] != "player" || names[1] != "queue" {
		t.Errorf("Names() = %v, want [player queue]", names)
	}
	if v, _ := s.Resolve("player"); v != 3 {
		t.Errorf("Resolve(player) = %v, want 3", v)
	}
}

func TestServiceCollection_MustResolvePanics(t *testing.T) {
	s := NewServiceCollection()

	defer func() {
		if recover() == nil {
			t.Error("MustResolve did not panic for a missing service")
		}
	}()
	s.MustResolve("missing")
}

func TestServiceCollection_Concurrent(t *testing.T) {
	s := NewServiceCollection()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Register("shared", 1)
		}()
		go func() {
			defer wg.Done()
			s.Resolve("shared")
			s.Names()
		}()
	}
	wg.Wait()

	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}
