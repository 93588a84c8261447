package paging

import (
	"context"
	"errors"
	"testing"
)

func TestAll(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		size      int
		wantItems int
		wantReqs  int
	}{
		{"several pages", 12, 5, 12, 3},
		{"exact multiple needs an empty page", 10, 5, 10, 3},
		{"single short page", 3, 5, 3, 1},
		{"empty", 0, 5, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &pagedSource{total: tt.total}
			var progress []int
			items, err := All(context.Background(), src.fetch, testFilter{PageNum: 4, Size: tt.size}, func(n int) {
				progress = append(progress, n)
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(items) != tt.wantItems {
				t.Errorf("expected %d items, got %d", tt.wantItems, len(items))
			}
			if len(src.requests) != tt.wantReqs {
				t.Errorf("expected %d requests, got %d", tt.wantReqs, len(src.requests))
			}
			if src.requests[0].Page() != 1 {
				t.Errorf("expected to start at page 1, got %d", src.requests[0].Page())
			}
			if len(progress) != tt.wantReqs || progress[len(progress)-1] != tt.wantItems {
				t.Errorf("unexpected progress %v", progress)
			}
		})
	}
}

func TestAllStopsOnError(t *testing.T) {
	src := &pagedSource{total: 10}
	boom := errors.New("boom")
	src.setFail(boom)
	if _, err := All(context.Background(), src.fetch, testFilter{Size: 5}, nil); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &pagedSource{total: 10}
	if _, err := All(ctx, src.fetch, testFilter{Size: 5}, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(src.requests) != 0 {
		t.Errorf("expected no requests, got %d", len(src.requests))
	}
}
