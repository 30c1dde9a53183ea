// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice complements the standard [slices] package with the generic
helpers the value editors need: mapping, filtering and set-style merges that
keep the original order.
*/
package slice

import "slices"

// Map maps a slice of type T to a slice of type U using the provided transformation function.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}

	return result
}

// Filter returns the elements for which predicate holds. A nil input stays nil.
func Filter[T any](input []T, predicate func(T) bool) []T {
	if input == nil {
		return nil
	}

	var result []T
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}

	return result
}

// Union appends the values of added missing from current. current is not
// modified and the result is never nil.
func Union[T comparable](current, added []T) []T {
	merged := make([]T, 0, len(current)+len(added))
	merged = append(merged, current...)
	for _, value := range added {
		if !slices.Contains(merged, value) {
			merged = append(merged, value)
		}
	}
	return merged
}

// Difference returns current without any value of removed. The result is
// never nil.
func Difference[T comparable](current, removed []T) []T {
	kept := make([]T, 0, len(current))
	for _, value := range current {
		if !slices.Contains(removed, value) {
			kept = append(kept, value)
		}
	}
	return kept
}
