// Package ffmpeg builds and runs the ffmpeg command that resamples one file,
// with a bounded, classified retry loop and verification of the result.
//
// One attempt is a single ffmpeg process limited by the configured timeout.
// When ffmpeg fails, its stderr is matched against known failure patterns
// and at most one fix is applied before the next attempt:
//
//  1. drop non-audio streams (-map 0:a), e.g. embedded cover pictures the
//     muxer cannot store
//  2. drop container metadata (-map_metadata -1)
//
// Attempts stop after the fixes run out, after three attempts, or at once
// in strict mode. A zero exit is only accepted once the output has been
// re-inspected and matches the plan. Every failure removes the output.
package ffmpeg
