package gstreamer

import (
	"errors"
	"testing"
)

type libraryCalls struct {
	inits, deinits int
}

func newTestRuntime(c *libraryCalls) *gstRuntime {
	return &gstRuntime{
		startup:  func() { c.inits++ },
		shutdown: func() { c.deinits++ },
	}
}

func TestRuntimeSharedAcrossHolders(t *testing.T) {
	var c libraryCalls
	r := newTestRuntime(&c)

	for range 2 {
		if err := r.acquire(); err != nil {
			t.Fatalf("acquire() = %v", err)
		}
	}
	if c.inits != 1 {
		t.Errorf("inits = %d, want 1", c.inits)
	}

	r.release()
	if c.deinits != 0 {
		t.Error("deinitialized while a holder remains")
	}
	r.release()
	if c.deinits != 1 {
		t.Errorf("deinits = %d, want 1", c.deinits)
	}
}

func TestRuntimeNoReinitAfterDeinit(t *testing.T) {
	var c libraryCalls
	r := newTestRuntime(&c)

	if err := r.acquire(); err != nil {
		t.Fatal(err)
	}
	r.release()

	if err := r.acquire(); !errors.Is(err, ErrDeinitialized) {
		t.Errorf("acquire() after deinit = %v, want ErrDeinitialized", err)
	}
	if c.inits != 1 {
		t.Errorf("inits = %d, want 1", c.inits)
	}
}

func TestRuntimeReleaseWithoutAcquire(t *testing.T) {
	var c libraryCalls
	r := newTestRuntime(&c)

	r.release()
	if c.deinits != 0 {
		t.Errorf("deinits = %d, want 0", c.deinits)
	}
	if err := r.acquire(); err != nil {
		t.Errorf("acquire() = %v, want nil", err)
	}
}
