// Package viz draws meshes into terminal-sized pixel buffers.
//
//   - [Canvas]: Braille-based pixel canvas, 2x4 sub-pixels per cell
//   - [Camera]: orbit camera projecting world points onto a canvas
//   - [Wireframe]: edge list built from a mesh, drawn with [Render3D]
//   - [Theme]: colour schemes shared by the terminal viewer and SVG export
package viz
