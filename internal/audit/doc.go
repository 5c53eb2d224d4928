// Package audit implements the append-only command audit trail.
//
// Every OperatorCommand accepted by the Command Service is recorded as one
// JSON line with the command, its value, the resulting reply fields, and
// the mission time at which it was processed.
package audit
