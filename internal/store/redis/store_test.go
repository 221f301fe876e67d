package redis

import (
	"context"
	"fmt"
	"path"
	"sort"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
)

// fakeServer answers SCAN and DEL in-process through a client hook; no
// command ever reaches the network.
type fakeServer struct {
	mu      sync.Mutex
	keys    map[string]struct{}
	batches []int
}

func (f *fakeServer) DialHook(next redis.DialHook) redis.DialHook { return next }

func (f *fakeServer) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (f *fakeServer) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		f.mu.Lock()
		defer f.mu.Unlock()

		args := cmd.Args()
		switch c := cmd.(type) {
		case *redis.ScanCmd:
			pattern := fmt.Sprint(args[3])
			var page []string
			for k := range f.keys {
				if ok, _ := path.Match(pattern, k); ok {
					page = append(page, k)
				}
			}
			c.SetVal(page, 0)
		case *redis.IntCmd:
			if cmd.Name() != "del" {
				return fmt.Errorf("unexpected command %s", cmd.Name())
			}
			var n int64
			for _, a := range args[1:] {
				k := fmt.Sprint(a)
				if _, ok := f.keys[k]; ok {
					delete(f.keys, k)
					n++
				}
			}
			f.batches = append(f.batches, len(args)-1)
			c.SetVal(n)
		default:
			return fmt.Errorf("unexpected command %s", cmd.Name())
		}
		return nil
	}
}

func newFakeStore(t *testing.T, physical ...string) (*Store, *fakeServer) {
	t.Helper()
	f := &fakeServer{keys: make(map[string]struct{}, len(physical))}
	for _, k := range physical {
		f.keys[k] = struct{}{}
	}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(f)
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, ""), f
}

func TestStoreKeysStripsNamespace(t *testing.T) {
	store, _ := newFakeStore(t,
		"fellowship:content:bibles",
		"fellowship:content:books:kjv",
		"fellowship:content:chapter:GEN.1",
		"fellowship:content:",
		"sessions:books:kjv",
	)

	tests := []struct {
		pattern string
		want    []string
	}{
		{pattern: "*", want: []string{"bibles", "books:kjv", "chapter:GEN.1"}},
		{pattern: "books:*", want: []string{"books:kjv"}},
		{pattern: "verse:*", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := store.Keys(context.Background(), tt.pattern)
			if err != nil {
				t.Fatalf("Keys() error = %v", err)
			}
			sort.Strings(got)
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("Keys(%q) = %v, want %v", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestStoreDeleteBatches(t *testing.T) {
	var physical, logical []string
	for i := 0; i < 1201; i++ {
		k := fmt.Sprintf("verse:kjv:V%d", i)
		logical = append(logical, k)
		physical = append(physical, NamespacedKey(DefaultKeyPrefix, k))
	}
	store, f := newFakeStore(t, physical...)

	// one key that was never stored
	n, err := store.Delete(context.Background(), append(logical, "verse:kjv:missing")...)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if n != 1201 {
		t.Errorf("deleted = %d, want 1201", n)
	}
	if want := "[500 500 202]"; fmt.Sprint(f.batches) != want {
		t.Errorf("batches = %v, want %s", f.batches, want)
	}
	if len(f.keys) != 0 {
		t.Errorf("%d keys left", len(f.keys))
	}

	f.batches = nil
	if n, err := store.Delete(context.Background()); err != nil || n != 0 {
		t.Errorf("Delete() with no keys = %d, %v", n, err)
	}
	if len(f.batches) != 0 {
		t.Errorf("empty delete issued %d DEL commands", len(f.batches))
	}
}
