package client

import (
	"testing"
	"time"
)

// fakeController reports steps progress ticks per Refresh, simulating a
// controller that iterates that many identifiers (refreshByID's
// pattern). steps <= 0 behaves as a single identifier.
type fakeController struct {
	name  string
	steps int
}

func (f *fakeController) Name() string { return f.name }
func (f *fakeController) Refresh(timeout time.Duration, onProgress RefreshHandler) error {
	steps := f.steps
	if steps <= 0 {
		steps = 1
	}
	for i := 0; i < steps; i++ {
		if onProgress != nil {
			onProgress((i + 1) * 100 / steps)
		}
	}
	return nil
}

func TestContainerPreservesInsertionOrder(t *testing.T) {
	c := newContainer()
	c.add(&fakeController{name: "a"})
	c.add(&fakeController{name: "b"})
	c.add(&fakeController{name: "c"})

	var order []string
	c.each(func(i int, ctrl Controller) { order = append(order, ctrl.Name()) })

	want := []string{"a", "b", "c"}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestContainerAddIsIdempotentByName(t *testing.T) {
	c := newContainer()
	c.add(&fakeController{name: "a"})
	c.add(&fakeController{name: "a"})
	if c.len() != 1 {
		t.Fatalf("len = %d, want 1", c.len())
	}
}
