// Package categories holds the closed set of rule categories.
//
// The set is fixed when the process starts, either from the built-in
// defaults or from configuration, and is never mutated afterwards. A Set is
// a value: copies share nothing a caller could change, so it can be passed
// around freely without synchronization.
//
// A name outside the set is a caller error. Validate reports it as an
// UNKNOWN_CATEGORY error that carries the complete list of valid names,
// which transports surface as the "available_types" field.
package categories
