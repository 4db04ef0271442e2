package queue

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testItem is a simple struct for testing the generic queue
type testItem struct {
	ID   int
	Name string
}

func TestQueue_New(t *testing.T) {
	q := New[testItem]()
	require.NotNil(t, q)
	assert.True(t, q.Empty())
	assert.Equal(t, 0, q.Len())
}

func TestQueue_Push(t *testing.T) {
	q := New[testItem]()

	q.Push(testItem{ID: 1, Name: "first"})
	assert.Equal(t, 1, q.Len())

	q.Push(testItem{ID: 2}, testItem{ID: 3})
	assert.Equal(t, 3, q.Len())
	assert.False(t, q.Empty())
}

func TestQueue_PopN(t *testing.T) {
	q := New[testItem]()

	assert.Empty(t, q.PopN(5), "empty queue")

	q.Push(testItem{ID: 1}, testItem{ID: 2}, testItem{ID: 3})
	batch := q.PopN(2)
	require.Len(t, batch, 2)
	assert.Equal(t, 1, batch[0].ID)
	assert.Equal(t, 2, batch[1].ID)
	assert.Equal(t, 1, q.Len())

	rest := q.PopN(10)
	require.Len(t, rest, 1)
	assert.Equal(t, 3, rest[0].ID)
	assert.True(t, q.Empty())
}

func TestQueue_PopN_All(t *testing.T) {
	q := New[int]()
	q.Push(1, 2, 3)

	assert.Equal(t, []int{1, 2, 3}, q.PopN(0))
	assert.True(t, q.Empty())
}

func TestQueue_PopN_DoesNotAlias(t *testing.T) {
	q := New[int]()
	q.Push(1, 2)
	batch := q.PopN(1)
	q.Push(3)
	batch[0] = 99

	assert.Equal(t, []int{2, 3}, q.PopN(0))
}

func TestQueue_Drain(t *testing.T) {
	q := New[int]()
	for i := 0; i < 7; i++ {
		q.Push(i)
	}

	var sizes []int
	var got []int
	err := q.Drain(3, func(batch []int) error {
		sizes = append(sizes, len(batch))
		got = append(got, batch...)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3, 1}, sizes)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, got)
	assert.True(t, q.Empty())
}

func TestQueue_Drain_Error(t *testing.T) {
	q := New[int]()
	q.Push(1, 2, 3, 4)
	boom := errors.New("boom")

	err := q.Drain(2, func(batch []int) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, q.Len(), "second batch stays queued")
}

func TestQueue_Drain_Empty(t *testing.T) {
	q := New[int]()
	called := false
	require.NoError(t, q.Drain(10, func([]int) error {
		called = true
		return nil
	}))
	assert.False(t, called)
}

func TestQueue_Concurrent(t *testing.T) {
	q := New[testItem]()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			q.Push(testItem{ID: id})
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 100, q.Len())

	var mu sync.Mutex
	total := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n := len(q.PopN(5))
			mu.Lock()
			total += n
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, total)
	assert.Equal(t, 50, q.Len())
}
