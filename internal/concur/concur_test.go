package concur

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestEach_RunsEveryItem(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	var count int64

	err := Each(context.Background(), items, 2, func(_ context.Context, n int) error {
		atomic.AddInt64(&count, int64(n))
		return nil
	})
	if err != nil {
		t.Fatalf("Each() error = %v", err)
	}
	if count != 15 {
		t.Errorf("count = %d, want 15", count)
	}
}

func TestEach_PropagatesFirstError(t *testing.T) {
	boom := errors.New("boom")
	items := []int{1, 2, 3}

	err := Each(context.Background(), items, 1, func(_ context.Context, n int) error {
		if n == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("Each() error = %v, want %v", err, boom)
	}
}

func TestEach_DefaultsLimitWhenNonPositive(t *testing.T) {
	items := make([]int, 20)
	for i := range items {
		items[i] = i
	}
	var count int64
	err := Each(context.Background(), items, 0, func(_ context.Context, n int) error {
		atomic.AddInt64(&count, 1)
		return nil
	})
	if err != nil {
		t.Fatalf("Each() error = %v", err)
	}
	if count != 20 {
		t.Errorf("count = %d, want 20", count)
	}
}
