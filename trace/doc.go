// Package trace captures the intermediate images a pipeline run produces,
// for debugging extraction quality on a specific photograph.
//
// A Recorder keeps every recorded image in memory and, when given a
// directory, also writes each one as a numbered PNG so the files sort into
// pipeline order. All recording entry points accept a nil *Recorder and do
// nothing, so stages trace unconditionally and pay nothing when tracing is
// off.
//
// The overlay helpers render stage decisions (selected regions, detected
// corners) onto a copy of the image being inspected.
package trace
