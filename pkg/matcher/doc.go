// Package matcher evaluates rules against text.
//
// Two modes share one pass over the rules in storage order. Analyze compiles
// each rule's pattern and keeps the rules whose regex finds a match anywhere
// in the analyzed text. Search is a plain case-insensitive substring test of
// a keyword against the rule's name, message and pattern; patterns are never
// compiled in that mode.
//
// Patterns that are empty or fail to compile are skipped. They never fail a
// call.
//
// Regex evaluation is delegated to an Engine. The default engine is regexp2,
// whose backtracking syntax is closest to what rule authors write, and which
// supports a per-match timeout. The "re2" engine uses the standard library's
// linear-time regexp package and rejects constructs it cannot express.
package matcher
