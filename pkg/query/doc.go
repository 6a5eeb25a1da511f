// Package query composes the rule store, the matcher and the template store
// into the operations clients call.
//
// Two error policies are in play and each has its own helper. Sweep walks a
// list of categories, drops the ones that fail to load and omits the ones that
// produce nothing; search, analyze and example gathering use it. FailFast
// checks every requested category before any work starts and returns the first
// failure; analyze uses it so a bad category never costs a regex evaluation.
//
// Lookups of one category or rule surface their error directly. Callers turn
// errors into an ErrorReport with types.NewErrorReport.
package query
