// Package proto implements the control-channel wire protocol: a single
// command line in, a textual response out. Responses may carry human
// preamble lines ahead of the structured payload; stripping that framing
// quirk is this package's job, not the caller's.
package proto
