// Package server exposes the photo viewer over a JSON-RPC 2.0 stdio protocol.
//
// Requests arrive one per line on the input stream and responses are written
// one per line to the output stream, so logs must go to stderr.
//
// Supported methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Tools
//
// Browsing drives the viewer state machine and waits for the decodes it
// starts before answering:
//   - photo_open_directory, photo_select, photo_next, photo_previous
//   - photo_current: the selection without changing it
//
// Inspection works on any path, or on the current photo where path is
// optional:
//   - photo_detect_format: header-based format detection
//   - photo_info: dimensions, format and file attributes
//   - photo_sample_color: pixel colors of the decoded output
//   - photo_export: write decoded pixels, optionally scaled or fitted
//
// cache_stats reports the decoded-image cache, which the viewer and the
// path-based tools share.
//
// # Error Handling
//
// Tool failures become JSON-RPC errors with code -32000 and the Go error text
// in data. Malformed tools/call params get -32602 and unknown methods -32601.
package server
