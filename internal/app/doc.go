// Package app provides the application service layer.
//
// Runs the analysis pipeline (extraction, scoring, reconciliation, per-emoji
// re-scoring), the result cache in front of it, history writes and reads, the
// built-in sample batteries and history retention. Depends on domain
// interfaces, not concrete adapters.
package app
