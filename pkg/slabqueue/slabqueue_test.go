package slabqueue

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkInvariants[T any](t *testing.T, q *Queue[T]) {
	t.Helper()

	count, last := 0, none
	for i := q.front; i != none; i = q.slots[i].next {
		require.Less(t, count, len(q.slots), "cycle in chain")
		last = i
		count++
	}
	require.Equal(t, count, q.size)
	require.Equal(t, last, q.rear)
	require.Equal(t, q.front == none, q.rear == none)
	if q.rear != none {
		require.Equal(t, none, q.slots[q.rear].next)
	}

	free := 0
	for i := q.free; i != none; i = q.slots[i].next {
		free++
		require.LessOrEqual(t, free, len(q.slots), "cycle in free list")
	}
	require.Equal(t, len(q.slots), count+free, "slots leaked")
	require.LessOrEqual(t, len(q.slots), max(q.maxSize, 0))
}

func TestScenario(t *testing.T) {
	q := New[int](5)
	for i := 1; i <= 5; i++ {
		require.True(t, q.Enqueue(i))
	}
	require.False(t, q.Enqueue(6))
	checkInvariants(t, q)

	for _, want := range []int{1, 2} {
		v, err := q.Dequeue()
		require.NoError(t, err)
		require.Equal(t, want, v)
	}
	require.True(t, q.Enqueue(6))
	checkInvariants(t, q)

	if diff := cmp.Diff([]int{3, 4, 5, 6}, slices.Collect(q.Dump())); diff != "" {
		t.Errorf("Dump() diff (-want +got):\n%s", diff)
	}
}

func TestSlotReuse(t *testing.T) {
	q := New[int](3)
	for round := range 100 {
		for i := range 3 {
			require.True(t, q.Enqueue(round*10+i))
		}
		for i := range 3 {
			v, err := q.Dequeue()
			require.NoError(t, err)
			require.Equal(t, round*10+i, v)
		}
		checkInvariants(t, q)
	}
	assert.Len(t, q.slots, 3, "slab grew past its high-water mark")
}

func TestEmptyAndNonPositive(t *testing.T) {
	q := New[int](2)
	_, err := q.Dequeue()
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = q.Peek()
	assert.ErrorIs(t, err, ErrEmpty)
	assert.True(t, q.IsEmpty())

	for _, maxSize := range []int{0, -3} {
		q := New[int](maxSize)
		assert.False(t, q.Enqueue(1))
		assert.Zero(t, q.FreeSlots())
		checkInvariants(t, q)
	}
}

func TestClear(t *testing.T) {
	q := New[string](4)
	q.Enqueue("a")
	q.Enqueue("b")
	q.Enqueue("c")
	q.Clear()

	checkInvariants(t, q)
	assert.True(t, q.IsEmpty())
	for _, s := range q.slots {
		assert.Empty(t, s.value, "released slot still holds a value")
	}

	require.True(t, q.Enqueue("d"))
	v, err := q.Peek()
	require.NoError(t, err)
	assert.Equal(t, "d", v)
	assert.Len(t, q.slots, 3)
}

func TestRandomOps(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2)) //nolint:gosec // Reproducibility is useful in tests

	for _, maxSize := range []int{1, 3, 16} {
		q := New[int](maxSize)
		var model []int
		for i := range 5000 {
			if rng.IntN(2) == 0 {
				ok := q.Enqueue(i)
				require.Equal(t, len(model) < maxSize, ok)
				if ok {
					model = append(model, i)
				}
			} else {
				v, err := q.Dequeue()
				if len(model) == 0 {
					require.ErrorIs(t, err, ErrEmpty)
				} else {
					require.NoError(t, err)
					require.Equal(t, model[0], v)
					model = model[1:]
				}
			}
			checkInvariants(t, q)
		}
		if diff := cmp.Diff(model, slices.Collect(q.Dump()), cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("maxSize=%d: Dump() diff (-want +got):\n%s", maxSize, diff)
		}
	}
}

func BenchmarkEnqueueDequeue(b *testing.B) {
	q := New[int](1024)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.Enqueue(i)
		_, _ = q.Dequeue()
	}
}
