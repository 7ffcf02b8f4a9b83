package scan

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
)

func items(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("/docs/%03d.pdf", i)
	}
	return out
}

func TestDispatch_SerialAndParallelEquivalent(t *testing.T) {
	in := items(50)
	work := func(_ context.Context, item string) []string {
		return []string{item + "#a", item + "#b"}
	}

	serial, err := Dispatch(context.Background(), &Pool{Serial: true}, in, work)
	if err != nil {
		t.Fatalf("serial: %v", err)
	}
	sort.Strings(serial)

	for _, workers := range []int{1, 2, 3, 8, 64} {
		parallel, err := Dispatch(context.Background(), &Pool{Workers: workers}, in, work)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		sort.Strings(parallel)
		if len(parallel) != len(serial) {
			t.Fatalf("workers=%d: got %d results, want %d", workers, len(parallel), len(serial))
		}
		for i := range serial {
			if parallel[i] != serial[i] {
				t.Fatalf("workers=%d: result[%d] = %q, want %q", workers, i, parallel[i], serial[i])
			}
		}
	}
}

func TestDispatch_EachItemExactlyOnce(t *testing.T) {
	in := items(200)
	var mu sync.Mutex
	seen := make(map[string]int)

	_, err := Dispatch(context.Background(), &Pool{Workers: 7}, in, func(_ context.Context, item string) []struct{} {
		mu.Lock()
		seen[item]++
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != len(in) {
		t.Errorf("processed %d distinct items, want %d", len(seen), len(in))
	}
	for item, n := range seen {
		if n != 1 {
			t.Errorf("%s processed %d times", item, n)
		}
	}
}

func TestDispatch_PreservesPerItemOrder(t *testing.T) {
	in := items(20)
	got, err := Dispatch(context.Background(), &Pool{Workers: 4}, in, func(_ context.Context, item string) []string {
		return []string{item + "/0", item + "/1", item + "/2"}
	})
	if err != nil {
		t.Fatal(err)
	}
	last := make(map[string]string)
	for _, r := range got {
		item, suffix := r[:len(r)-2], r[len(r)-1:]
		if prev, ok := last[item]; ok && prev >= suffix {
			t.Errorf("%s: %s came after %s", item, suffix, prev)
		}
		last[item] = suffix
	}
}

func TestDispatch_BoundedConcurrency(t *testing.T) {
	const workers = 3
	var current, peak int64

	_, err := Dispatch(context.Background(), &Pool{Workers: workers}, items(30), func(_ context.Context, _ string) []int {
		n := atomic.AddInt64(&current, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		atomic.AddInt64(&current, -1)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if peak > workers {
		t.Errorf("peak concurrency %d exceeds %d workers", peak, workers)
	}
}

func TestDispatch_Empty(t *testing.T) {
	got, err := Dispatch(context.Background(), &Pool{Workers: 4}, nil, func(context.Context, string) []int {
		t.Error("work called for empty input")
		return nil
	})
	if err != nil || len(got) != 0 {
		t.Errorf("got %v, %v; want empty, nil", got, err)
	}
}

func TestDispatch_OnDoneReportsEveryItem(t *testing.T) {
	in := items(25)
	var calls []int
	pool := &Pool{Workers: 5, OnDone: func(processed, total int, _ string) {
		if total != len(in) {
			t.Errorf("total = %d, want %d", total, len(in))
		}
		calls = append(calls, processed)
	}}

	if _, err := Dispatch(context.Background(), pool, in, func(context.Context, string) []int { return nil }); err != nil {
		t.Fatal(err)
	}
	if len(calls) != len(in) {
		t.Fatalf("OnDone called %d times, want %d", len(calls), len(in))
	}
	for i, c := range calls {
		if c != i+1 {
			t.Errorf("call %d reported %d processed", i, c)
		}
	}
}

func TestDispatch_CancelStopsNewItems(t *testing.T) {
	for _, pool := range []*Pool{{Serial: true}, {Workers: 2}} {
		ctx, cancel := context.WithCancel(context.Background())
		var started int64

		got, err := Dispatch(ctx, pool, items(100), func(_ context.Context, item string) []string {
			if atomic.AddInt64(&started, 1) == 3 {
				cancel()
			}
			return []string{item}
		})
		cancel()

		if err != context.Canceled {
			t.Errorf("serial=%v: err = %v, want context.Canceled", pool.Serial, err)
		}
		// Items already running when cancel fired still finish.
		if int64(len(got)) != atomic.LoadInt64(&started) {
			t.Errorf("serial=%v: %d results for %d started items", pool.Serial, len(got), started)
		}
		if started >= 100 {
			t.Errorf("serial=%v: all items started despite cancellation", pool.Serial)
		}
	}
}

func TestPool_Size(t *testing.T) {
	if got := (&Pool{Workers: 8, Serial: true}).Size(); got != 1 {
		t.Errorf("serial Size() = %d, want 1", got)
	}
	if got := (&Pool{Workers: 5}).Size(); got != 5 {
		t.Errorf("Size() = %d, want 5", got)
	}
	if got := (&Pool{}).Size(); got < 1 {
		t.Errorf("default Size() = %d, want >= 1", got)
	}
}
