// Package classification guesses an expense category from the free text a bank
// attaches to a transaction.
package classification

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// Pattern maps a regular expression over transaction text to a category.
type Pattern struct {
	Name     string
	Regex    string
	Category model.ExpenseCategory
	Priority int // Higher priority patterns are checked first
}

type compiledPattern struct {
	regex *regexp.Regexp
	Pattern
}

// Match is the pattern that claimed a piece of text.
type Match struct {
	PatternName string
	Category    model.ExpenseCategory
}

// Detector assigns categories using an ordered set of patterns.
type Detector struct {
	patterns []compiledPattern
	mu       sync.RWMutex
}

// NewDetector compiles patterns. Every regex is case-insensitive.
func NewDetector(patterns []Pattern) (*Detector, error) {
	compiled, err := compile(patterns)
	if err != nil {
		return nil, err
	}
	return &Detector{patterns: compiled}, nil
}

// NewDefaultDetector returns a detector loaded with DefaultPatterns.
func NewDefaultDetector() *Detector {
	d, err := NewDetector(DefaultPatterns())
	if err != nil {
		panic(fmt.Sprintf("default patterns: %v", err))
	}
	return d
}

func compile(patterns []Pattern) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		if !p.Category.Valid() {
			return nil, fmt.Errorf("pattern %s: %w: category %d", p.Name, model.ErrInvalidInput, p.Category)
		}

		regexStr := p.Regex
		if !strings.HasPrefix(regexStr, "(?i)") {
			regexStr = "(?i)" + regexStr
		}
		regex, err := regexp.Compile(regexStr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern %s: %w", p.Name, err)
		}
		compiled = append(compiled, compiledPattern{Pattern: p, regex: regex})
	}

	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].Priority > compiled[j].Priority
	})
	return compiled, nil
}

// Detect returns the highest priority pattern matching any of the given text
// fields, or false when nothing matches.
func (d *Detector) Detect(fields ...string) (Match, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	text := strings.Join(fields, " ")
	for _, p := range d.patterns {
		if p.regex.MatchString(text) {
			return Match{PatternName: p.Name, Category: p.Category}, true
		}
	}
	return Match{}, false
}

// Categorize is Detect with a fallback category for unmatched text.
func (d *Detector) Categorize(fallback model.ExpenseCategory, fields ...string) model.ExpenseCategory {
	if m, ok := d.Detect(fields...); ok {
		return m.Category
	}
	return fallback
}

// UpdatePatterns replaces the loaded patterns. On error the old set is kept.
func (d *Detector) UpdatePatterns(patterns []Pattern) error {
	compiled, err := compile(patterns)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.patterns = compiled
	d.mu.Unlock()
	return nil
}

// PatternCount returns the number of loaded patterns.
func (d *Detector) PatternCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.patterns)
}
