package rules

import (
	"regexp"

	"github.com/Krish948/IronWall/internal/types"
)

// MatchMode determines how multiple patterns inside one rule combine.
type MatchMode int

const (
	MatchAny MatchMode = iota // any pattern match triggers the rule
	MatchAll                  // all patterns must match
)

// PatternType represents the type of a pattern.
type PatternType string

const (
	PatternRegex    PatternType = "regex"
	PatternContains PatternType = "contains"
)

// RawPattern is a single pattern as defined in YAML.
type RawPattern struct {
	Type  PatternType `yaml:"type"`
	Value string      `yaml:"value"`
}

// RawRule is the YAML representation of a detection rule.
type RawRule struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Severity    string       `yaml:"severity"`
	Category    string       `yaml:"category"`
	Family      string       `yaml:"family,omitempty"`
	MatchMode   string       `yaml:"match_mode,omitempty"`
	Patterns    []RawPattern `yaml:"patterns"`
}

// CompiledPattern is a pattern ready for matching.
type CompiledPattern struct {
	Type  PatternType
	Regex *regexp.Regexp // set when Type == PatternRegex
	Value string         // set when Type == PatternContains (lowercased)
}

// CompiledRule is a rule compiled and ready for execution.
type CompiledRule struct {
	ID          string
	Name        string
	Description string
	Severity    types.Severity
	Category    string
	Family      string
	MatchMode   MatchMode
	Patterns    []CompiledPattern
}

// Rule categories used by the builtin corpus. The signature store
// reports matches per category.
const (
	CategoryDestructive   = "destructive-command"
	CategoryPersistence   = "persistence"
	CategoryStealth       = "stealth"
	CategoryMalwareFamily = "malware-family"
	CategorySuspiciousURL = "suspicious-url"
	CategoryEncoded       = "encoded-content"
)
