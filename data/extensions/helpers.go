package extensions

import (
	"time"

	"github.com/guregu/null/v6"
)

// FilterMultiple return all elements that satisfy the predicate
func FilterMultiple[T any](elements []T, predicate func(T) bool) (results []T) {
	for _, element := range elements {
		if predicate(element) {
			results = append(results, element)
		}
	}
	return
}

// FilterLast return the last element that satisfies the predicate and whether one was found
func FilterLast[T any](elements []T, predicate func(T) bool) (result T, ok bool) {
	for i := len(elements) - 1; i >= 0; i-- {
		if predicate(elements[i]) {
			return elements[i], true
		}
	}
	return
}

// Map applies f to every element
func Map[T, R any](elements []T, f func(T) R) []R {
	res := make([]R, len(elements))
	for i, element := range elements {
		res[i] = f(element)
	}
	return res
}

// ValidFloats drops the absent values and unwraps the rest, order is kept
func ValidFloats(values []null.Float) []float64 {
	res := make([]float64, 0, len(values))
	for _, v := range values {
		if v.Valid {
			res = append(res, v.Float64)
		}
	}
	return res
}

// FmtShort formats a time in a date only string
func FmtShort(t time.Time) string {
	return t.Format(time.DateOnly)
}
