// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ConsentFlow: Runs the interactive delegated-consent flow
//   - TokenStore: Durable persistence for the cached credential
//   - MappingStore: Durable cardId to remote event id mapping
//   - CalendarGateway: Create/update calls against the remote calendar API
//   - ResultPublisher: Best-effort broadcast of correlated sync results
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Text generation. Without it, mail summarisation and
//     event extraction are disabled; calendar sync is unaffected.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
