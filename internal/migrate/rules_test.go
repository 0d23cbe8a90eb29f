package migrate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/sessionmigrate/internal/migrate"
)

const (
	guardedLookupConstant = "const token = localStorage.getItem('auth_token');\n    if (!token) {\n        window.location.href = '/';\n        return;\n    }"
	bareLookupConstant    = "const token = localStorage.getItem('auth_token');"

	guardedSessionConstant = "// Get Supabase session token\n" +
		"    const { data: { session } } = await window.supabase.auth.getSession();\n" +
		"    if (!session) {\n" +
		"        window.location.href = '/index.html';\n" +
		"        return;\n" +
		"    }\n" +
		"    const token = session.access_token;"

	bareSessionConstant = "const { data: { session } } = await window.supabase.auth.getSession();\n" +
		"    const token = session?.access_token;"

	functionPrefixConstant = "async function loadBillings() {\n    "
	functionSuffixConstant = "\n    const response = await fetch('/api/billings', { headers: { Authorization: `Bearer ${token}` } });\n}\n"
)

func TestAuthTokenRulesRewrite(testInstance *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "guarded_lookup",
			input:    guardedLookupConstant,
			expected: guardedSessionConstant,
		},
		{
			name:     "bare_lookup",
			input:    bareLookupConstant,
			expected: bareSessionConstant,
		},
		{
			name:     "guarded_lookup_inside_function",
			input:    functionPrefixConstant + guardedLookupConstant + functionSuffixConstant,
			expected: functionPrefixConstant + guardedSessionConstant + functionSuffixConstant,
		},
		{
			name:     "compact_guard",
			input:    "const token=localStorage.getItem('auth_token');if(!token){window.location.href='/';return;}",
			expected: guardedSessionConstant,
		},
		{
			name:     "tab_indented_guard",
			input:    "const  token =\tlocalStorage.getItem( \"auth_token\" );\n\tif ( !token ) {\n\t\twindow.location.href = \"/\";\n\t\treturn;\n\t}",
			expected: guardedSessionConstant,
		},
		{
			name:     "guard_with_other_redirect_falls_back_to_bare",
			input:    "const token = localStorage.getItem('auth_token');\nif (!token) { window.location.href = '/login'; return; }",
			expected: bareSessionConstant + "\nif (!token) { window.location.href = '/login'; return; }",
		},
		{
			name:     "mixed_occurrences",
			input:    guardedLookupConstant + "\n" + bareLookupConstant,
			expected: guardedSessionConstant + "\n" + bareSessionConstant,
		},
		{
			name:     "other_key_untouched",
			input:    "const token = localStorage.getItem('refresh_token');",
			expected: "const token = localStorage.getItem('refresh_token');",
		},
		{
			name:     "longer_identifier_untouched",
			input:    "const tokenValue = localStorage.getItem('auth_token');",
			expected: "const tokenValue = localStorage.getItem('auth_token');",
		},
		{
			name:     "let_declaration_untouched",
			input:    "let token = localStorage.getItem('auth_token');",
			expected: "let token = localStorage.getItem('auth_token');",
		},
	}

	rules := migrate.AuthTokenRules()
	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outcome := rules.Apply(testCase.input)
			require.Equal(testInstance, testCase.expected, outcome.Content)
		})
	}
}

func TestAuthTokenRulesAreIdempotent(testInstance *testing.T) {
	inputs := []string{
		guardedLookupConstant,
		bareLookupConstant,
		functionPrefixConstant + guardedLookupConstant + functionSuffixConstant,
		guardedLookupConstant + "\n\n" + bareLookupConstant + "\n" + guardedLookupConstant,
		"console.log('nothing to migrate');\n",
		"",
	}

	rules := migrate.AuthTokenRules()
	for _, input := range inputs {
		once := rules.Apply(input)
		twice := rules.Apply(once.Content)
		require.Equal(testInstance, once.Content, twice.Content)
		require.Zero(testInstance, twice.TotalMatches())
	}
}

func TestAuthTokenRulesOrderMatters(testInstance *testing.T) {
	rules := migrate.AuthTokenRules()
	require.Equal(testInstance, []string{migrate.GuardedTokenRuleName, migrate.BareTokenRuleName}, rules.Names())

	guardedFirst := rules.Apply(guardedLookupConstant)
	bareFirst := migrate.RuleSet{migrate.BareTokenRule(), migrate.GuardedTokenRule()}.Apply(guardedLookupConstant)

	require.Equal(testInstance, guardedSessionConstant, guardedFirst.Content)
	require.NotEqual(testInstance, guardedFirst.Content, bareFirst.Content)
	require.Contains(testInstance, bareFirst.Content, "if (!token)")
	require.Equal(testInstance, []migrate.RuleApplication{
		{RuleName: migrate.BareTokenRuleName, Matches: 1},
		{RuleName: migrate.GuardedTokenRuleName, Matches: 0},
	}, bareFirst.Applications)
}

func TestRuleSetRecordsMatchCounts(testInstance *testing.T) {
	input := guardedLookupConstant + "\n" + bareLookupConstant + "\n" + bareLookupConstant

	outcome := migrate.AuthTokenRules().Apply(input)

	require.Equal(testInstance, []migrate.RuleApplication{
		{RuleName: migrate.GuardedTokenRuleName, Matches: 1},
		{RuleName: migrate.BareTokenRuleName, Matches: 2},
	}, outcome.Applications)
	require.Equal(testInstance, 3, outcome.TotalMatches())
}

func TestRuleInsertsReplacementLiterally(testInstance *testing.T) {
	rule := migrate.Rule{
		Name:        "dollar",
		Matcher:     migrate.TokenDeclarationPattern().MustCompile(),
		Replacement: "const token = $1;",
	}

	updated, matches := rule.Apply(bareLookupConstant)
	require.Equal(testInstance, 1, matches)
	require.Equal(testInstance, "const token = $1;", updated)

	unchanged, noMatches := migrate.Rule{Name: "empty"}.Apply(bareLookupConstant)
	require.Zero(testInstance, noMatches)
	require.Equal(testInstance, bareLookupConstant, unchanged)
}
