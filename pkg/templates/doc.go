// Package templates serves the starter and example files that accompany the
// rules: a flat templates directory grouped by language, plus nested
// directories of same-language examples for particular categories.
//
// The store only probes for files and returns their content. Listing and
// example gathering are sweeps: unreadable entries are skipped. Get is a
// targeted lookup and reports TEMPLATE_NOT_FOUND with close names.
package templates
