// Package filesystem provides implementations of the types.FS interface.
//
// Two implementations are available:
//   - NewOS() for production use against the real filesystem
//   - NewAferoFS() / NewMemory() for tests, backed by afero
package filesystem
