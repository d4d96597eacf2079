// Package lint dispatches the top-level nodes of a parsed document to the
// rules registered for their type and collects the findings as records tied
// to the document's file path.
//
// Rules are pure: they receive one node and return a Result. A RuleSet is
// built once and shared read-only by every file task, so checking documents
// concurrently needs no locking.
package lint
