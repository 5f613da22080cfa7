// Package planner decides whether an inspected file must be transcoded and
// to which sample rate and sample format. Decide is pure: it performs no I/O
// and its result depends only on its arguments.
//
// Bit depth mapping (applied to min(current, max) only when conversion is
// needed):
//
//	 8 -> u8  (unsigned 8-bit)
//	16 -> s16 (signed 16-bit)
//	24 -> s16 (24-bit output is not produced; decks reject it)
//	32 -> s32 (signed 32-bit)
//
// Anything else yields an [*UnsupportedConfigurationError].
package planner
