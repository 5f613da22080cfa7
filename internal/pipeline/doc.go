// Package pipeline walks a directory tree and converts every non-compliant
// WAV/AIFF file, one at a time.
//
// Per file: inspect → decide → (transcode → reconcile tags → place →
// shorten). A failure on one file is reported as an event and the walk
// moves on; only an unusable root directory stops a run. Progress and
// results are published as [Event] values to an [Observer], so this package
// does no terminal formatting except for the analyze report.
package pipeline
