// Package server implements the MCP (Model Context Protocol) server for LED
// bitmap conversion.
//
// This package provides a JSON-RPC 2.0 server that exposes image-to-LED
// conversion through the MCP protocol, so an assistant can turn artwork into
// firmware-ready byte arrays for LED matrices and spinning POV displays.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Conversion:
//   - led_image_info: Load image and get metadata
//   - led_convert_grid: Square 1-bit matrix bitmap
//   - led_convert_polar: POV arm lines (sparse colors + packed bits)
//   - led_convert_batch: Several images, parallel, ordered results
//   - led_pattern: Circle/square test pattern for a POV arm
//
// Output:
//   - led_render_code: Arduino C or MicroPython listing
//   - led_preview: PNG preview of a converted image
//
// Session and configuration:
//   - led_session_list, led_session_clear
//   - led_profiles
//
// # Session
//
// Converted images are held in memory by name until replaced by a conversion
// under the same name or cleared. The conversion core itself is stateless;
// the session only exists so that several conversions can be rendered into
// one listing.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
package server
