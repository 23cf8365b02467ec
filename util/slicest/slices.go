// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package slicest holds small generic slice helpers used by the UI layers.
package slicest

// Map returns fn applied to every element of s.
func Map[T, U any, S ~[]T](s S, fn func(T) U) []U {
	return MapI(s, func(_ int, t T) U { return fn(t) })
}

// MapI is Map with the element index passed to fn.
func MapI[T, U any, S ~[]T](s S, fn func(int, T) U) []U {
	result := make([]U, len(s))
	for i, v := range s {
		result[i] = fn(i, v)
	}
	return result
}

// MapX is Map with error propagation. It stops at the first failure.
func MapX[T, U any, S ~[]T](s S, fn func(T) (U, error)) ([]U, error) {
	result := make([]U, len(s))
	for i, v := range s {
		out, err := fn(v)
		if err != nil {
			return nil, err
		}
		result[i] = out
	}
	return result, nil
}

// Filter keeps the elements for which keep returns true.
func Filter[T any, S ~[]T](s S, keep func(T) bool) S {
	var result S
	for _, v := range s {
		if keep(v) {
			result = append(result, v)
		}
	}
	return result
}

// ReduceD folds s into init.
func ReduceD[T any, S ~[]T, U any](s S, init U, fn func(T, U) U) U {
	for _, t := range s {
		init = fn(t, init)
	}
	return init
}

// Reduce folds s starting from the zero value of U.
func Reduce[T any, S ~[]T, U any](s S, fn func(T, U) U) U {
	var zero U
	return ReduceD(s, zero, fn)
}
