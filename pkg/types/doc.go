// Package types defines the data model shared by the rulebook packages:
// rules and rule sets as loaded from storage, the transient results of
// analysis and search, template listings, and the structured error report
// every transport returns instead of raising.
package types
