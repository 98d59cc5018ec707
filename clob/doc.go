// Package clob implements the typestate client: a client that exists as one
// of three Go types — UnauthenticatedClient, AuthenticatedClient,
// BuilderClient — each exposing only the operations valid in that state and
// sharing one underlying Inner via co-owning handles. State transitions that
// need exclusive ownership of the shared state check an atomic handle
// refcount at the transition instant.
package clob
