// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoundedBufferInvalidSize(t *testing.T) {
	_, err := NewBoundedBuffer[int](0, nil)
	require.ErrorIs(t, err, errInvalidMaxSize)
}

func TestBoundedBuffer(t *testing.T) {
	require := require.New(t)

	evicted := []int{}
	b, err := NewBoundedBuffer(3, func(i int) {
		evicted = append(evicted, i)
	})
	require.NoError(err)

	_, ok := b.Last()
	require.False(ok)
	require.Empty(b.Items())

	for i := 0; i < 3; i++ {
		b.Insert(i)
	}
	require.Equal([]int{0, 1, 2}, b.Items())
	require.Empty(evicted)

	b.Insert(3)
	b.Insert(4)
	require.Equal([]int{2, 3, 4}, b.Items())
	require.Equal([]int{0, 1}, evicted)
	require.Equal(3, b.Len())

	last, ok := b.Last()
	require.True(ok)
	require.Equal(4, last)
}

func TestMap(t *testing.T) {
	require.Equal(t, []string{"a!", "b!"}, Map(func(s string) string { return s + "!" }, []string{"a", "b"}))
}
