// Package probe reads an audio file's sample rate and bit depth from its
// header chunks without decoding audio.
//
// WAV files are read from the "fmt " chunk (bitsPerSample); AIFF and AIFF-C
// files from the "COMM" chunk (sampleSize and the 80-bit extended sample
// rate). Only chunk headers are touched, so a single call costs a few small
// reads regardless of file size.
//
// Any failure, including an unsupported extension, is reported as an
// [*UnreadableMetadataError] so callers can skip the file with one check.
package probe
