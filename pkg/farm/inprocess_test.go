package farm

// inprocess_test.go covers InProcess's result delivery and concurrency bound.
//
// © 2025 parcelgo authors. MIT License.

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type funcTask struct {
	fn func(ctx context.Context) (any, error)
}

func (t funcTask) Payload() ([]byte, error)              { return nil, nil }
func (t funcTask) Execute(ctx context.Context) (any, error) { return t.fn(ctx) }

func TestInProcessRunReturnsResult(t *testing.T) {
	f := NewInProcess(0)
	v, err := f.Run(context.Background(), funcTask{fn: func(ctx context.Context) (any, error) {
		return 7, nil
	}})
	if err != nil || v != 7 {
		t.Fatalf("unexpected result: %v, %v", v, err)
	}
}

func TestInProcessBoundsConcurrency(t *testing.T) {
	f := NewInProcess(2)
	var active, maxActive atomic.Int32

	run := func() {
		f.Run(context.Background(), funcTask{fn: func(ctx context.Context) (any, error) {
			n := active.Add(1)
			for {
				cur := maxActive.Load()
				if n <= cur || maxActive.CompareAndSwap(cur, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			active.Add(-1)
			return nil, nil
		}})
	}

	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		go func() {
			run()
			done <- struct{}{}
		}()
	}
	for i := 0; i < 5; i++ {
		<-done
	}

	if maxActive.Load() > 2 {
		t.Fatalf("expected at most 2 concurrent tasks, observed %d", maxActive.Load())
	}
}
