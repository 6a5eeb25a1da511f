// Package server exposes the dispatcher over two transports.
//
// The HTTP transport serves JSON under /v1. Resource reads and tool calls
// answer domain failures with 200 and an error report body; malformed
// requests get 400 and unknown resources or tools 404.
//
// The stdio transport reads one JSON request per line and writes one JSON
// response per line, which suits editors and agents that spawn rulebook as
// a subprocess.
package server
