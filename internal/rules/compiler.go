package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Krish948/IronWall/internal/types"
)

// Compile converts a RawRule into a CompiledRule ready for execution.
func Compile(raw RawRule) (*CompiledRule, error) {
	if raw.ID == "" {
		return nil, fmt.Errorf("rule missing ID")
	}
	if len(raw.Patterns) == 0 {
		return nil, fmt.Errorf("rule %s: no patterns defined", raw.ID)
	}

	sev, err := types.ParseSeverity(raw.Severity)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", raw.ID, err)
	}

	mode := MatchAny
	if strings.ToLower(raw.MatchMode) == "all" {
		mode = MatchAll
	}

	compiled := &CompiledRule{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Severity:    sev,
		Category:    raw.Category,
		Family:      raw.Family,
		MatchMode:   mode,
	}

	for i, p := range raw.Patterns {
		cp, err := compilePattern(p)
		if err != nil {
			return nil, fmt.Errorf("rule %s pattern %d: %w", raw.ID, i, err)
		}
		compiled.Patterns = append(compiled.Patterns, cp)
	}

	return compiled, nil
}

func compilePattern(p RawPattern) (CompiledPattern, error) {
	switch p.Type {
	case PatternRegex:
		re, err := regexp.Compile("(?i)" + p.Value)
		if err != nil {
			return CompiledPattern{}, fmt.Errorf("invalid regex %q: %w", p.Value, err)
		}
		return CompiledPattern{Type: PatternRegex, Regex: re}, nil
	case PatternContains:
		if p.Value == "" {
			return CompiledPattern{}, fmt.Errorf("empty contains pattern")
		}
		return CompiledPattern{Type: PatternContains, Value: strings.ToLower(p.Value)}, nil
	default:
		return CompiledPattern{}, fmt.Errorf("unknown pattern type %q", p.Type)
	}
}

// CompileAll compiles every raw rule, failing on the first invalid one.
func CompileAll(raws []RawRule) ([]*CompiledRule, error) {
	compiled := make([]*CompiledRule, 0, len(raws))
	for _, raw := range raws {
		cr, err := Compile(raw)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, cr)
	}
	return compiled, nil
}
