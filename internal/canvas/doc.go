// Package canvas models carousel projects as ordered canvas collections.
//
// Every structural operation (add, remove, duplicate, reorder, set active)
// is a total copy-on-write function over Project that maintains two
// invariants: slide numbers are exactly 1..N in array order, and exactly one
// canvas is active whenever the project is non-empty. Edge cases saturate
// into no-ops rather than erroring so interactive callers never crash on a
// bounds violation.
package canvas
