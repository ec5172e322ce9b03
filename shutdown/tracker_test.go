package shutdown

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestOperationTracker_StartDone(t *testing.T) {
	tr := NewOperationTracker()

	if !tr.Start() {
		t.Fatal("Start on open tracker returned false")
	}
	if !tr.Start() {
		t.Fatal("second Start returned false")
	}
	if got := tr.Active(); got != 2 {
		t.Errorf("Active() = %d, want 2", got)
	}

	tr.Done()
	tr.Done()
	if got := tr.Active(); got != 0 {
		t.Errorf("Active() = %d, want 0", got)
	}
}

func TestOperationTracker_DoneWithoutStart(t *testing.T) {
	tr := NewOperationTracker()
	tr.Done()
	if got := tr.Active(); got != 0 {
		t.Errorf("Active() = %d, want 0", got)
	}
	if err := tr.Wait(10 * time.Millisecond); err != nil {
		t.Errorf("Wait on idle tracker: %v", err)
	}
}

func TestOperationTracker_CloseRejects(t *testing.T) {
	tr := NewOperationTracker()
	tr.Close()

	if !tr.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
	if tr.Start() {
		t.Error("Start after Close returned true")
	}
}

func TestOperationTracker_WaitDrains(t *testing.T) {
	tr := NewOperationTracker()
	for i := 0; i < 3; i++ {
		tr.Start()
	}

	go func() {
		for i := 0; i < 3; i++ {
			time.Sleep(5 * time.Millisecond)
			tr.Done()
		}
	}()

	if err := tr.Wait(time.Second); err != nil {
		t.Fatalf("Wait() = %v, want nil", err)
	}
}

func TestOperationTracker_WaitTimeout(t *testing.T) {
	tr := NewOperationTracker()
	tr.Start()
	defer tr.Done()

	err := tr.Wait(20 * time.Millisecond)
	if !errors.Is(err, ErrWaitTimeout) {
		t.Errorf("Wait() = %v, want ErrWaitTimeout", err)
	}
}

func TestOperationTracker_ReusableAfterIdle(t *testing.T) {
	tr := NewOperationTracker()
	tr.Start()
	tr.Done()

	// a new busy period must not see the previous idle signal
	tr.Start()
	if err := tr.Wait(10 * time.Millisecond); !errors.Is(err, ErrWaitTimeout) {
		t.Errorf("Wait() = %v, want ErrWaitTimeout", err)
	}
	tr.Done()
}

func TestOperationTracker_Concurrent(t *testing.T) {
	tr := NewOperationTracker()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tr.Start() {
				tr.Done()
			}
		}()
	}
	wg.Wait()

	if got := tr.Active(); got != 0 {
		t.Errorf("Active() = %d, want 0", got)
	}
}
