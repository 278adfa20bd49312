// Package survey owns the acquisition-geometry engine.
//
// Responsibilities: the survey model (blocks, templates, seeds, grow steps,
// reflectors), template point generation, geometry assembly into
// source/receiver/relation record arrays, reflection-point solving against
// a midpoint, dipping plane or buried sphere, and fold/offset binning into
// a dense subsurface grid.
//
// A Runner executes one full assembly-and-binning pass on a background
// goroutine with cooperative cancellation and coarse progress reporting.
// Output arrays are owned by the running pass and handed to the caller
// only after it completes.
//
// No SQL/database code is allowed in this package; persistence of run
// results lives in storage/sqlite.
package survey
