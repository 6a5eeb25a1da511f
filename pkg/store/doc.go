// Package store loads a category's rule set from persisted storage.
//
// Each category is backed by one file under the rules directory named
// "<category><suffix>.<ext>", by default "security_rules.json". JSON is the
// canonical format; YAML and TOML files with the same shape are accepted
// and probed in that order after JSON. The first existing file wins.
//
// A rule set is always read in full and fresh on every call. Nothing is
// cached: the rule files are treated as read-only and immutable while the
// process runs.
//
// Decoding tolerates malformed rule records. A record that is not an object,
// or whose known fields are not strings, is dropped and logged; the rest of
// the category still loads. Only a file that cannot be read or decoded at
// all fails the load.
package store
