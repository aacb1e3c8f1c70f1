package sequence

import (
	"context"
	"sync"
	"testing"

	"client_portal/internal/usecase/interfaces"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newSequence(t *testing.T) (*RedisSequence, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisSequence(rdb), mr
}

func TestRedisSequence_StartsAtOneAndIncreases(t *testing.T) {
	s, _ := newSequence(t)
	ctx := context.Background()
	for want := int64(1); want <= 3; want++ {
		got, err := s.Next(ctx, interfaces.SequenceQuote)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if got != want {
			t.Fatalf("got %d, want %d", got, want)
		}
	}
	if got, _ := s.Next(ctx, interfaces.SequenceInvoice); got != 1 {
		t.Fatalf("invoice sequence should be independent, got %d", got)
	}
}

func TestRedisSequence_ConcurrentUnique(t *testing.T) {
	s, _ := newSequence(t)
	const n = 50

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int64]bool)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := s.Next(context.Background(), interfaces.SequenceQuote)
			if err != nil {
				t.Errorf("next: %v", err)
				return
			}
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	if len(seen) != n {
		t.Fatalf("expected %d unique numbers, got %d", n, len(seen))
	}
	for i := int64(1); i <= n; i++ {
		if !seen[i] {
			t.Fatalf("missing number %d", i)
		}
	}
}

func TestRedisSequence_Errors(t *testing.T) {
	s, mr := newSequence(t)
	if _, err := s.Next(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty name")
	}
	mr.Close()
	if _, err := s.Next(context.Background(), interfaces.SequenceQuote); err == nil {
		t.Fatal("expected error with redis down")
	}
}
