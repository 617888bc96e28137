// Package render turns converted images into things people and firmware
// consume: source listings (Arduino C and MicroPython) and PNG previews.
//
// Renderers only read ledmap results; the byte values they print are exactly
// the packed bytes of each row or line.
package render
