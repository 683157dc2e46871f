// Package cache replays enrichment results without calling the provider.
//
// The text format holds one attribute per line in key order. The literal
// line "None" is an unknown attribute; every other line is a known value:
//
//	Computer Software
//	None
//	Computer Software
//
// FileSource reads that format as-is and trusts it to line up with the
// current key set. CaptureSource reads a capture from the local capture
// store and refuses it when it was produced for a different key set.
package cache
