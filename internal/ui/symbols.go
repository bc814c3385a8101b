package ui

// Status symbols printed at the start of each line.
const (
	SymbolSuccess  = "✓" // key generated, stanza added
	SymbolFail     = "✗" // fatal error
	SymbolWarning  = "!" // per-key failure, batch continues
	SymbolSkipped  = "⊘" // nothing to do for this step
	SymbolPending  = "○" // informational
	SymbolComplete = "●" // batch summary
)
