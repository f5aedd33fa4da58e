// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
//
// Example:
//
//	n := utils.AtoiDefault("42", 0) // returns 42
//	n = utils.AtoiDefault("", 10)   // returns 10
//	n = utils.AtoiDefault("x", 5)   // returns 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// Window clamps an offset/limit pair against a collection of length n and
// returns the half-open index range [lo, hi) to serve.
//
// Rules:
//   - offset < 0 is treated as 0; offset >= n yields an empty range.
//   - limit <= 0 means "no limit" (serve through the end).
func Window(n, offset, limit int) (lo, hi int) {
	if offset < 0 {
		offset = 0
	}
	if offset >= n {
		return n, n
	}
	lo = offset
	hi = n
	if limit > 0 && lo+limit < n {
		hi = lo + limit
	}
	return lo, hi
}
