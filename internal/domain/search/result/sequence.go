package result

import (
	"errors"
	"iter"
)

// Sequence access errors.
var (
	ErrNoElements       = errors.New("sequence contains no elements")
	ErrMultipleElements = errors.New("sequence contains more than one element")
	ErrIndexOutOfRange  = errors.New("index out of range")
)

// Sequence is a materialized, ordered list with positional accessors.
type Sequence[T any] []T

// Len returns the number of elements.
func (s Sequence[T]) Len() int { return len(s) }

// All yields elements in order.
func (s Sequence[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s {
			if !yield(v) {
				return
			}
		}
	}
}

// First returns the first element.
func (s Sequence[T]) First() (T, error) {
	if len(s) == 0 {
		var zero T
		return zero, ErrNoElements
	}
	return s[0], nil
}

// FirstOrDefault returns the first element or the zero value.
func (s Sequence[T]) FirstOrDefault() T {
	v, _ := s.First()
	return v
}

// Last returns the last element.
func (s Sequence[T]) Last() (T, error) {
	if len(s) == 0 {
		var zero T
		return zero, ErrNoElements
	}
	return s[len(s)-1], nil
}

// LastOrDefault returns the last element or the zero value.
func (s Sequence[T]) LastOrDefault() T {
	v, _ := s.Last()
	return v
}

// Single returns the only element.
func (s Sequence[T]) Single() (T, error) {
	var zero T
	switch len(s) {
	case 0:
		return zero, ErrNoElements
	case 1:
		return s[0], nil
	default:
		return zero, ErrMultipleElements
	}
}

// SingleOrDefault returns the only element, or the zero value when there
// is not exactly one.
func (s Sequence[T]) SingleOrDefault() T {
	v, _ := s.Single()
	return v
}

// ElementAt returns the element at index i.
func (s Sequence[T]) ElementAt(i int) (T, error) {
	if i < 0 || i >= len(s) {
		var zero T
		return zero, ErrIndexOutOfRange
	}
	return s[i], nil
}

// ElementAtOrDefault returns the element at index i or the zero value.
func (s Sequence[T]) ElementAtOrDefault(i int) T {
	v, _ := s.ElementAt(i)
	return v
}
