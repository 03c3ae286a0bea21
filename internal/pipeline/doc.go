// Package pipeline turns a list of local files into uploaded objects.
//
// Files are validated up front, each one gets its own remote key, and
// uploads run concurrently with an upper bound on how many are in flight.
// A failing file never stops its siblings: every task ends in an
// output.Outcome that either carries the public URL or the error.
package pipeline
