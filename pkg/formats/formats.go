// Package formats provides parsers for the mesh, material and terrain files
// a scene can reference: Wavefront OBJ and MTL, and raw 16-bit heightmaps.
package formats
