// Package pattern describes whitespace-tolerant source text matchers as an
// explicit grammar of literals, identifiers, quoted strings, and flexible
// whitespace, compiling them to regular expressions on demand.
package pattern
