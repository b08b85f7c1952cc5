// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CorpusStore: serialised access to the shared knowledge document
//   - LLMService: language model backend, including tool-calling chat
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ExecutionStore: past execution history. Without it, runs lose
//     feedback context but still execute.
//   - ConfigStore: application configuration.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
