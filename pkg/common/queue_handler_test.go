package common

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type batches struct {
	mu  sync.Mutex
	got [][]int
}

func (b *batches) process(items []int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.got = append(b.got, append([]int(nil), items...))
}

func (b *batches) all() [][]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.got
}

func TestQueueHandlerProcessesFullBatches(t *testing.T) {
	b := &batches{}
	q := NewQueueHandler(b.process, 2, time.Hour)
	defer q.Close()

	q.Add(1, 2, 3)
	assert.Eventually(t, func() bool {
		return len(b.all()) >= 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, [][]int{{1, 2}, {3}}, b.all())
	assert.Equal(t, 0, q.Len())
}

func TestQueueHandlerFlushesPartialBatchOnInterval(t *testing.T) {
	b := &batches{}
	q := NewQueueHandler(b.process, 10, 10*time.Millisecond)
	defer q.Close()

	q.Add(7)
	assert.Eventually(t, func() bool {
		return len(b.all()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestQueueHandlerCloseDrains(t *testing.T) {
	b := &batches{}
	q := NewQueueHandler(b.process, 10, time.Hour)

	q.Add(1, 2)
	q.Close()
	assert.Equal(t, [][]int{{1, 2}}, b.all())

	q.Add(3)
	assert.Equal(t, 0, q.Len())
	q.Close()
}
