// Package scaffold lays out a fresh rules directory: one starter rule file
// per category plus the template directories the template store reads.
//
// Work is planned first against a types.FS so existing entries can be
// skipped, then applied through a synthfs pipeline confined to the target
// directory.
package scaffold
