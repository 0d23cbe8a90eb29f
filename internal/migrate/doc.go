// Package migrate rewrites front-end scripts that read the authentication
// token from browser local storage so they read it from the Supabase session
// instead.
//
// The rewrite is an ordered RuleSet: the guarded rule replaces the token
// lookup together with its redirect guard, then the bare rule replaces any
// lookup left over. Service applies the rules to a fixed list of files,
// writes a file only when its content changed, and reports one line per
// file followed by the number of files fixed.
package migrate
