package migrate

import (
	"regexp"

	"github.com/temirov/sessionmigrate/internal/pattern"
)

const (
	// GuardedTokenRuleName identifies the rule rewriting the token lookup together with its redirect guard.
	GuardedTokenRuleName = "guarded-local-storage-token"
	// BareTokenRuleName identifies the rule rewriting a token lookup without a guard.
	BareTokenRuleName = "bare-local-storage-token"

	authTokenStorageKeyConstant = "auth_token"
	tokenIdentifierConstant     = "token"
	guardRedirectTargetConstant = "/"

	guardedTokenReplacementConstant = `// Get Supabase session token
    const { data: { session } } = await window.supabase.auth.getSession();
    if (!session) {
        window.location.href = '/index.html';
        return;
    }
    const token = session.access_token;`

	bareTokenReplacementConstant = `const { data: { session } } = await window.supabase.auth.getSession();
    const token = session?.access_token;`
)

// Rule replaces every match of Matcher with Replacement.
type Rule struct {
	Name        string
	Matcher     *regexp.Regexp
	Replacement string
}

// Apply replaces all matches in text and reports how many were replaced.
// Replacement is inserted literally; "$" carries no expansion meaning.
func (rule Rule) Apply(text string) (string, int) {
	if rule.Matcher == nil {
		return text, 0
	}
	matchCount := len(rule.Matcher.FindAllStringIndex(text, -1))
	if matchCount == 0 {
		return text, 0
	}
	return rule.Matcher.ReplaceAllLiteralString(text, rule.Replacement), matchCount
}

// RuleApplication records how many matches a rule replaced.
type RuleApplication struct {
	RuleName string
	Matches  int
}

// RewriteOutcome is the result of running a RuleSet over a text buffer.
type RewriteOutcome struct {
	Content      string
	Applications []RuleApplication
}

// TotalMatches sums the matches across all rules.
func (outcome RewriteOutcome) TotalMatches() int {
	total := 0
	for _, application := range outcome.Applications {
		total += application.Matches
	}
	return total
}

// RuleSet is an ordered list of rules. Each rule sees the output of the rule before it.
type RuleSet []Rule

// Apply runs every rule in order against text.
func (rules RuleSet) Apply(text string) RewriteOutcome {
	outcome := RewriteOutcome{Content: text, Applications: make([]RuleApplication, 0, len(rules))}
	for _, rule := range rules {
		updatedContent, matchCount := rule.Apply(outcome.Content)
		outcome.Content = updatedContent
		outcome.Applications = append(outcome.Applications, RuleApplication{RuleName: rule.Name, Matches: matchCount})
	}
	return outcome
}

// Names lists the rule names in application order.
func (rules RuleSet) Names() []string {
	names := make([]string, 0, len(rules))
	for _, rule := range rules {
		names = append(names, rule.Name)
	}
	return names
}

// TokenDeclarationPattern matches `const token = localStorage.getItem('auth_token');`.
func TokenDeclarationPattern() pattern.Pattern {
	return pattern.Sequence(pattern.Identifier("const"), pattern.Whitespace()).Statement(
		pattern.Identifier(tokenIdentifierConstant),
		pattern.Literal("="),
		pattern.Identifier("localStorage"),
		pattern.Literal("."),
		pattern.Identifier("getItem"),
		pattern.Literal("("),
		pattern.Quoted(authTokenStorageKeyConstant),
		pattern.Literal(")"),
		pattern.Literal(";"),
	)
}

// RedirectGuardPattern matches `if (!token) { window.location.href = '/'; return; }`.
func RedirectGuardPattern() pattern.Pattern {
	return pattern.Sequence().Statement(
		pattern.Identifier("if"),
		pattern.Literal("("),
		pattern.Literal("!"),
		pattern.Identifier(tokenIdentifierConstant),
		pattern.Literal(")"),
		pattern.Literal("{"),
		pattern.Identifier("window"),
		pattern.Literal("."),
		pattern.Identifier("location"),
		pattern.Literal("."),
		pattern.Identifier("href"),
		pattern.Literal("="),
		pattern.Quoted(guardRedirectTargetConstant),
		pattern.Literal(";"),
		pattern.Identifier("return"),
		pattern.Literal(";"),
		pattern.Literal("}"),
	)
}

// GuardedTokenRule rewrites the declaration followed by its redirect guard.
// The guard redirects to '/', the replacement redirects to '/index.html'.
func GuardedTokenRule() Rule {
	guardedPattern := TokenDeclarationPattern().
		Then(pattern.OptionalWhitespace()).
		Then(RedirectGuardPattern().Elements()...)
	return Rule{
		Name:        GuardedTokenRuleName,
		Matcher:     guardedPattern.MustCompile(),
		Replacement: guardedTokenReplacementConstant,
	}
}

// BareTokenRule rewrites any declaration the guarded rule did not consume.
func BareTokenRule() Rule {
	return Rule{
		Name:        BareTokenRuleName,
		Matcher:     TokenDeclarationPattern().MustCompile(),
		Replacement: bareTokenReplacementConstant,
	}
}

// AuthTokenRules returns the session migration rules. The guarded rule must
// run first: the bare rule matches a prefix of it and would strand the guard.
func AuthTokenRules() RuleSet {
	return RuleSet{GuardedTokenRule(), BareTokenRule()}
}
