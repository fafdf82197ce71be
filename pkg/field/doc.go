// Package field provides an in-memory host field implementation for examples
// and tests. The engine core stays host-agnostic; Field satisfies every
// collaborator contract the engine consumes structurally, without importing
// the cascade package:
//
//   - FieldID()                identity for the default key resolver
//   - Snapshot()               values exposed to expression templates
//   - Put(key, value)          silent write used by modifier mutations
//   - OnFieldChange(fn)        change-signal registration
//
// Set raises the change signal after writing, which is how callers simulate a
// user edit; Put never raises it, so modifier mutations cannot re-enter the
// cascade they run in.
//
// Store collects fields by id so examples and tests can resolve the same
// logical field from multiple call sites.
package field
