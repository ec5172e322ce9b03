package shutdown

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestRegistry_RunsInPriorityOrder(t *testing.T) {
	r := NewRegistry()
	var order []string
	add := func(name string, prio int) {
		r.Register(name, prio, func(ctx context.Context) error {
			order = append(order, name)
			return nil
		})
	}
	add("logs", PriorityLogs)
	add("partials", PriorityPartialFiles)
	add("history", PriorityHistory)
	add("workers", PriorityWorkers)
	add("history-2", PriorityHistory)

	want := []string{"workers", "history", "history-2", "partials", "logs"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	if errs := r.Run(context.Background()); len(errs) != 0 {
		t.Fatalf("Run() errors = %v", errs)
	}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("run order = %v, want %v", order, want)
	}
}

func TestRegistry_CollectsErrors(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	called := 0
	r.Register("first", 1, func(ctx context.Context) error { called++; return boom })
	r.Register("second", 2, func(ctx context.Context) error { called++; return nil })

	errs := r.Run(context.Background())
	if called != 2 {
		t.Errorf("called %d hooks, want 2", called)
	}
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if !errors.Is(errs[0], boom) {
		t.Errorf("error %v does not wrap boom", errs[0])
	}
	if !strings.HasPrefix(errs[0].Error(), "first:") {
		t.Errorf("error %q missing hook name", errs[0])
	}
}

func TestRegistry_RunOnce(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.Register("once", 0, func(ctx context.Context) error { calls++; return nil })

	r.Run(context.Background())
	r.Run(context.Background())

	if calls != 1 {
		t.Errorf("hook ran %d times, want 1", calls)
	}
	if !r.HasRun() {
		t.Error("HasRun() = false")
	}

	r.Register("late", 0, func(ctx context.Context) error { return nil })
	if r.Len() != 1 {
		t.Errorf("Len() = %d after late register, want 1", r.Len())
	}
}

func TestRegistry_IgnoresNilHook(t *testing.T) {
	r := NewRegistry()
	r.Register("nil", 0, nil)
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}
