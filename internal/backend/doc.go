// Package backend defines the contract every target-language emitter
// implements, and the pieces they share.
//
// # Lifecycle
//
// Each backend owns at most one open program at a time:
//
//	Closed --OpenTest--> Open --Get/Put/Delete*--> Open --CloseTest--> Closed
//
// Calling Get, Put, Delete or CloseTest while Closed, or OpenTest while
// Open, fails with common.ErrContractViolation. Abort releases the open
// file on failure paths.
//
// # Literals
//
// Backends turn value.Value trees into source expressions by implementing
// value.Visitor. Encoders may need auxiliary statements (byte arrays,
// collection builders) that must run before the expression is used; they
// write those into the statement group being built and return a fresh
// identifier. Byte strings are checked after encoding: the emitted literal
// is decoded again and compared with the input (see VerifyBytes).
//
// Key types
//
//   - type Backend   — the per-language emitter contract
//   - type File      — lifecycle and output handling shared by emitters
//   - type Options   — output root and source-dir variable
//
// Concrete emitters live in the python, ruby and java subpackages.
package backend
