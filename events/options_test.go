package events

import (
	"sync"
	"testing"
)

func TestOptions_Toggle(t *testing.T) {
	o := NewOptions()

	if !o.Toggle("notify") {
		t.Fatal("missing key should toggle to true")
	}
	if o.Toggle("notify") {
		t.Fatal("second toggle should give false")
	}

	o.Set("notify", "yes")
	if !o.Toggle("notify") {
		t.Fatal("non-bool value counts as false")
	}
}

func TestOptions_Accessors(t *testing.T) {
	o := NewOptions()
	o.Set("name", "bot")
	o.Set("on", true)

	if o.String("name") != "bot" || o.String("on") != "" {
		t.Fatal("unexpected String results")
	}
	if !o.Bool("on") || o.Bool("name") || o.Bool("missing") {
		t.Fatal("unexpected Bool results")
	}

	o.Delete("name")
	if _, ok := o.Get("name"); ok {
		t.Fatal("deleted key still present")
	}
}

func TestOptions_SnapshotIsCopy(t *testing.T) {
	o := NewOptions()
	o.Set("a", 1)

	snap := o.Snapshot()
	snap["a"] = 2

	if v, _ := o.Get("a"); v != 1 {
		t.Fatalf("snapshot write leaked into options: %v", v)
	}
}

func TestOptions_ConcurrentUpdates(t *testing.T) {
	o := NewOptions()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.Update("count", func(old any, ok bool) any {
				if !ok {
					return 1
				}
				return old.(int) + 1
			})
		}()
	}
	wg.Wait()

	if v, _ := o.Get("count"); v != 50 {
		t.Fatalf("expected 50, got %v", v)
	}
}
