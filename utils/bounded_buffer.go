// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import "errors"

var (
	_ BoundedBuffer[bool] = (*boundedBuffer[bool])(nil)

	errInvalidMaxSize = errors.New("maxSize must be greater than 0")
)

type BoundedBuffer[T any] interface {
	// Insert adds a new value to the buffer. If the buffer is full, the
	// oldest value will be overwritten and [onEvict] will be invoked.
	Insert(elt T)

	// Last retrieves the last item added to the buffer.
	//
	// If no items have been added to the buffer, Last returns the default value of
	// [T] and [false].
	Last() (T, bool)

	// Returns all the items in the buffer sorted from oldest to newest.
	Items() []T

	Len() int
}

// boundedBuffer keeps [maxSize] entries of type [T] in a ring and calls
// [onEvict] on any item that is overwritten. The event feed uses it to
// replay recent dispatch results to late subscribers.
//
// boundedBuffer is not thread-safe and requires the caller synchronize usage.
type boundedBuffer[T any] struct {
	items   []T
	head    int // index of the oldest item
	size    int
	onEvict func(T)
}

func NewBoundedBuffer[T any](maxSize int, onEvict func(T)) (BoundedBuffer[T], error) {
	if maxSize < 1 {
		return nil, errInvalidMaxSize
	}
	if onEvict == nil {
		onEvict = func(T) {}
	}
	return &boundedBuffer[T]{
		items:   make([]T, maxSize),
		onEvict: onEvict,
	}, nil
}

func (b *boundedBuffer[T]) Insert(elt T) {
	if b.size == len(b.items) {
		b.onEvict(b.items[b.head])
		b.items[b.head] = elt
		b.head = (b.head + 1) % len(b.items)
		return
	}
	b.items[(b.head+b.size)%len(b.items)] = elt
	b.size++
}

func (b *boundedBuffer[T]) Last() (T, bool) {
	if b.size == 0 {
		var empty T
		return empty, false
	}
	return b.items[(b.head+b.size-1)%len(b.items)], true
}

func (b *boundedBuffer[T]) Items() []T {
	items := make([]T, b.size)
	for i := 0; i < b.size; i++ {
		items[i] = b.items[(b.head+i)%len(b.items)]
	}
	return items
}

func (b *boundedBuffer[T]) Len() int {
	return b.size
}
