// Package testutil holds shared fixtures for package tests: sample rule
// sets and a complete rules tree in an in-memory filesystem, a query
// service wired over that tree, and a matcher engine that records what it
// compiles and evaluates.
package testutil
