package signature

import (
	"strings"

	"github.com/Krish948/IronWall/internal/rules"
	"github.com/Krish948/IronWall/internal/types"
)

// evalPatterns runs every compiled rule and every flat signature string
// against text. Each rule contributes at most one match; the flat list
// contributes one match per hit. All category matches are returned so
// callers can report the full picture even though the classifier only
// needs the first.
func evalPatterns(compiled []*rules.CompiledRule, flat []string, text string) []Match {
	var matches []Match
	lower := strings.ToLower(text)

	for _, rule := range compiled {
		if matched, hit := matchRule(rule, text, lower); matched {
			matches = append(matches, Match{
				RuleID:   rule.ID,
				RuleName: rule.Name,
				Category: rule.Category,
				Family:   rule.Family,
				Severity: rule.Severity,
				Matched:  hit,
			})
		}
	}

	for _, sig := range flat {
		if sig == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(sig)) {
			matches = append(matches, Match{
				RuleID:   "signature",
				RuleName: sig,
				Category: "signature",
				Severity: types.SeverityMedium,
				Matched:  sig,
			})
		}
	}

	return matches
}

// matchRule evaluates one rule according to its match mode and returns
// the first matched text.
func matchRule(rule *rules.CompiledRule, text, lower string) (bool, string) {
	switch rule.MatchMode {
	case rules.MatchAll:
		first := ""
		for _, pat := range rule.Patterns {
			hit, ok := matchPattern(pat, text, lower)
			if !ok {
				return false, ""
			}
			if first == "" {
				first = hit
			}
		}
		return len(rule.Patterns) > 0, first
	default: // MatchAny
		for _, pat := range rule.Patterns {
			if hit, ok := matchPattern(pat, text, lower); ok {
				return true, hit
			}
		}
		return false, ""
	}
}

func matchPattern(pat rules.CompiledPattern, text, lower string) (string, bool) {
	switch pat.Type {
	case rules.PatternRegex:
		if pat.Regex == nil {
			return "", false
		}
		hit := pat.Regex.FindString(text)
		if hit == "" {
			return "", false
		}
		if len(hit) > 200 {
			hit = hit[:200] + "..."
		}
		return hit, true
	case rules.PatternContains:
		if strings.Contains(lower, pat.Value) {
			return pat.Value, true
		}
	}
	return "", false
}
