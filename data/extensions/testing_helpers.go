package extensions

import (
	"math"
	"testing"

	"github.com/guregu/null/v6"
)

func AssertAreEqual[T comparable](t *testing.T, name string, expected T, actual T) {
	t.Helper()
	if expected != actual {
		t.Fatalf("value mismatch for %s, expected %v, got %v", name, expected, actual)
	}
}

// AssertAbsent fails when a nullable metric carries a value
func AssertAbsent(t *testing.T, name string, actual null.Float) {
	t.Helper()
	if actual.Valid {
		t.Fatalf("expected %s to be absent, got %v", name, actual.Float64)
	}
}

// AssertFloat fails unless a nullable metric is present and within 1e-9 of expected
func AssertFloat(t *testing.T, name string, expected float64, actual null.Float) {
	t.Helper()
	if !actual.Valid {
		t.Fatalf("expected %s to be %v, got absent", name, expected)
	}
	if math.Abs(expected-actual.Float64) > 1e-9 {
		t.Fatalf("value mismatch for %s, expected %v, got %v", name, expected, actual.Float64)
	}
}
