// Package common defines shared constants and sentinel errors used across
// the generator: value encoding, backends, orchestration and the CLI.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Lifecycle errors (operation called in the wrong backend state,
	// duplicate test names, operations outside of a test).
	ErrContractViolation = errors.New("contract violation")

	// Encoding errors.
	ErrUnsupportedValue = errors.New("unsupported value")
	ErrByteFidelity     = errors.New("byte fidelity violation")

	// Script / schema errors.
	ErrInvalidSpace  = errors.New("invalid space declaration")
	ErrInvalidName   = errors.New("invalid test name")
	ErrInvalidScript = errors.New("invalid script")

	// Verification errors.
	ErrSyntaxCheck      = errors.New("syntax check failed")
	ErrManifestMismatch = errors.New("manifest mismatch")

	// Configuration errors.
	ErrUnknownBackend = errors.New("unknown backend")
)
