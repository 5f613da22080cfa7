// Package naming decides where converted audio ends up on disk.
//
// Conversion always writes a sibling file first (see [ConvertedPath]). Once
// it is verified, [Place] either leaves it next to the original or moves it
// over the original with [ReplaceFile], which never leaves the destination
// missing. [Shorten] optionally trims an overlong filename to fit the path
// length limit of the target filesystem.
package naming
