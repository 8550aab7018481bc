// Package surface is an in-memory vector drawing surface.
//
// A Map is the root container. Groups are layers that are also containers,
// so they nest. Ellipses are leaf layers with one mutator per attribute.
// Every attachment, removal and mutation fires an Event on the layer that
// bubbles up to the Map's observers, which makes the surface usable as a
// recording backend in tests and in the layerdemo CLI.
package surface
