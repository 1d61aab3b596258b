package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmallEnsemble(t *testing.T) {
	e := New(64)
	e.Add(0)
	assert.True(t, e.Contains(0))
	e.Add(4)
	assert.True(t, e.Contains(4))
	assert.False(t, e.Contains(3))
	assert.False(t, e.Contains(5))
	assert.Equal(t, 2, e.Len())
}

func TestLargeEnsemble(t *testing.T) {
	e := New(256)
	e.Add(200)
	assert.True(t, e.Contains(200))
	assert.False(t, e.Contains(0))
	assert.False(t, e.Contains(3))
	assert.False(t, e.Contains(199))
	assert.False(t, e.Contains(201))
}

func TestFreshEnsembleIsEmpty(t *testing.T) {
	for _, size := range []int{0, 1, 63, 64, 65, 1000} {
		e := New(size)
		require.Equal(t, size, e.Size())
		for i := 0; i < size; i++ {
			require.Falsef(t, e.Contains(i), "size=%d element=%d", size, i)
		}
		require.Zero(t, e.Len())
	}
}

func TestAddThenContainsEveryElement(t *testing.T) {
	const size = 300
	e := New(size)
	for i := 0; i < size; i++ {
		e.Add(i)
		require.True(t, e.Contains(i))
	}
	require.Equal(t, size, e.Len())
}

func TestRemoveClearsOnlyTargetBit(t *testing.T) {
	e := New(130)
	e.AddAll([]int{1, 2, 3, 64, 129})

	e.Remove(2)
	assert.False(t, e.Contains(2))
	assert.True(t, e.Contains(1))
	assert.True(t, e.Contains(3))
	assert.True(t, e.Contains(64))
	assert.True(t, e.Contains(129))
	assert.False(t, e.Contains(0))
	assert.False(t, e.Contains(100))

	e.Remove(2)
	assert.Equal(t, 4, e.Len())

	e.RemoveAll([]int{1, 64})
	assert.Equal(t, "[3-129]", e.String())
}

func TestOfSizesUniverseToLargestElement(t *testing.T) {
	e := Of([]int{5, 0, 17})
	require.Equal(t, 18, e.Size())
	assert.True(t, e.Contains(17))
	assert.True(t, e.Contains(5))
	assert.True(t, e.Contains(0))
	assert.Equal(t, "[0-5-17]", e.String())
}

func TestReset(t *testing.T) {
	e := Of([]int{1, 2, 3})
	e.Reset()
	assert.Zero(t, e.Len())
	assert.Equal(t, 4, e.Size())
}

func TestOutOfRangePanics(t *testing.T) {
	e := New(10)
	tests := map[string]func(){
		"add":      func() { e.Add(10) },
		"contains": func() { e.Contains(-1) },
		"remove":   func() { e.Remove(64) },
	}
	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			defer func() {
				r := recover()
				require.NotNil(t, r)
				err, ok := r.(error)
				require.True(t, ok)
				require.ErrorIs(t, err, ErrOutOfRange)
			}()
			fn()
		})
	}
}
