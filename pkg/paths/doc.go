// Package paths resolves where rulebook reads rules and configuration and
// where it writes its log. It follows the XDG Base Directory layout through
// github.com/adrg/xdg, with RULEBOOK_* environment overrides.
package paths
