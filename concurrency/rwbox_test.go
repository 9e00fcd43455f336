package concurrency

import (
	"sync"
	"testing"
)

func TestRWBoxGetSet(t *testing.T) {
	box := NewRWBox(1)
	if got := box.Get(); got != 1 {
		t.Fatalf("Get() = %d, want 1", got)
	}
	box.Set(2)
	if got := box.Get(); got != 2 {
		t.Fatalf("Get() = %d, want 2", got)
	}
}

func TestRWBoxWriteMutates(t *testing.T) {
	box := NewRWBox([]int{1, 2, 3})
	err := box.Write(func(value *[]int) error {
		*value = append(*value, 4)
		return nil
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := box.Get(); len(got) != 4 {
		t.Fatalf("len(Get()) = %d, want 4", len(got))
	}
}

func TestRWBoxConcurrentReaders(t *testing.T) {
	box := NewRWBox(map[string]int{"a": 1})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = box.Read(func(value map[string]int) error {
				_ = value["a"]
				return nil
			})
		}()
	}
	wg.Wait()
}
