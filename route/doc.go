// Package route implements the path exemption rules consulted by the goGate
// route gate before any session inspection happens.
//
// # Rule model
//
// An exemption set is an ordered list of explicit [Spec] rules, each one
// exact-match, prefix-match, or glob-match. The set compiles once into a
// [Matcher] at engine construction; a malformed rule fails construction
// instead of surfacing per request. Evaluation looks at the request path
// only — never the query string or headers — so a decision is reproducible
// from the path alone.
//
// # What this package must NOT do
//
//   - Inspect session tokens or make allow/redirect decisions (the Engine
//     owns those).
//   - Mutate the rule set after compilation.
//   - Perform I/O.
package route
