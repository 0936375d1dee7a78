// Package scanorch implements the core domain types for the vulnerability
// scanning orchestrator: agent identity, OS and package descriptors, CNA
// advisory candidates, and the ScanContext that every processing stage reads
// and mutates.
//
// The orchestration itself — the chain-of-responsibility that assembles and
// runs stages per scanner type — lives in the internal packages rooted at
// internal/stage and internal/orchestrator.
package scanorch
