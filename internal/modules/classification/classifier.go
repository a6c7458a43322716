// Package classification maps raw asset names to category paths and
// liquidity flags via an ordered rule table. First match wins, matching is
// case-insensitive, and the classifier is total: every input classifies.
package classification

import "strings"

// Input carries the raw attributes the classifier looks at
type Input struct {
	Name            string
	Volatility      float64
	HasInterestRate bool
}

// Classification is the classifier's result for one asset
type Classification struct {
	CategoryPath []string // e.g. ["Illiquid assets", "Real Estate"]
	Liquid       bool
	DefaultScore float64 // Band seed for assets without measured volatility, 0-100
}

// ClassKey returns the leaf category, used to partition the volatility
// population for per-class band thresholds.
func (c Classification) ClassKey() string {
	if len(c.CategoryPath) == 0 {
		return "Unclassified"
	}
	return c.CategoryPath[len(c.CategoryPath)-1]
}

// Rule pairs a predicate with its classification. Rules are evaluated
// top-to-bottom; order is the precedence.
type Rule struct {
	Name    string
	Matches func(Input) bool
	Result  Classification
}

// Classifier evaluates an ordered rule list
type Classifier struct {
	rules []Rule
}

// New creates a classifier with the given rule list
func New(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// NewDefault creates a classifier with the built-in rule table
func NewDefault() *Classifier {
	return New(DefaultRules())
}

// Classify returns the first matching rule's result. The final rule in the
// default table matches everything, so the zero Classification is only
// returned for an empty rule list.
func (c *Classifier) Classify(in Input) Classification {
	in.Name = strings.ToLower(in.Name)
	for _, rule := range c.rules {
		if rule.Matches(in) {
			return rule.Result
		}
	}
	return Classification{}
}

// Rules exposes the active rule list so precedence can be inspected
func (c *Classifier) Rules() []Rule {
	return c.rules
}

// nameContainsAny reports whether the lowercased name contains any keyword
func nameContainsAny(name string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}
