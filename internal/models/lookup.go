package models

// Lookup outcome constants
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
)
