package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Step completed successfully
	SymbolFail     = "✗" // Step failed
	SymbolWarning  = "⚠" // Needs attention
	SymbolPending  = "○" // Not started, or link idle
	SymbolProgress = "◐" // In progress, or link connecting
	SymbolComplete = "●" // Done, or link streaming
	SymbolSkipped  = "⊘" // Skipped
)
