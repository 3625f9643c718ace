package locks

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()

	var wg sync.WaitGroup
	counter := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("user|course")
			defer unlock()
			counter++
		}()
	}

	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestEntriesAreReleased(t *testing.T) {
	km := NewKeyedMutex()

	unlock := km.Lock("a")
	km.mu.Lock()
	assert.Len(t, km.entries, 1)
	km.mu.Unlock()

	unlock()

	km.mu.Lock()
	assert.Empty(t, km.entries)
	km.mu.Unlock()
}

func TestDifferentKeysDoNotBlock(t *testing.T) {
	km := NewKeyedMutex()

	unlockA := km.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := km.Lock("b")
		unlockB()
		close(done)
	}()

	<-done
}
