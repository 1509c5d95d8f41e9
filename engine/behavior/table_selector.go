package behavior

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/Carmen-Shannon/oxy-anim/engine/input"
	"gopkg.in/yaml.v3"
)

// Rule picks a clip when the snapshot matches. A snapshot matches when every intent in All is
// held and, if Any is not empty, at least one intent in Any is held. A rule with neither set
// always matches and works as the fallback.
type Rule struct {
	All  []input.Intent
	Any  []input.Intent
	Clip string
	Fade float32
}

func (r Rule) matches(snap input.Snapshot) bool {
	all := input.NewSnapshot(r.All...)
	if snap&all != all {
		return false
	}
	if len(r.Any) == 0 {
		return true
	}
	return snap&input.NewSnapshot(r.Any...) != 0
}

// tableSelector is the implementation of a rule table Selector.
type tableSelector struct {
	rules []Rule
}

var _ Selector = &tableSelector{}

// DefaultRules is the stock locomotion table: jump while up is held, crouch while down is held,
// walk while any planar intent is held and idle otherwise.
//
// Returns:
//   - []Rule: a fresh copy of the default rules
func DefaultRules() []Rule {
	return []Rule{
		{Any: []input.Intent{input.IntentUp}, Clip: "jump", Fade: 0.1},
		{Any: []input.Intent{input.IntentDown}, Clip: "crouch", Fade: 0.15},
		{Any: []input.Intent{input.IntentForward, input.IntentBack, input.IntentLeft, input.IntentRight}, Clip: "walk", Fade: 0.2},
		{Clip: "idle", Fade: 0.25},
	}
}

// NewTableSelector builds a Selector that walks rules in order and picks the first match.
// When nothing matches, the current clip is kept.
//
// Parameters:
//   - rules: the ordered rules
//
// Returns:
//   - Selector: the rule table selector
//   - error: ErrNoRules for an empty table, ErrInvalidRule for a rule without a clip or with a negative fade
func NewTableSelector(rules ...Rule) (Selector, error) {
	if len(rules) == 0 {
		return nil, ErrNoRules
	}
	for i, r := range rules {
		if r.Clip == "" {
			return nil, fmt.Errorf("rule %d has no clip: %w", i, ErrInvalidRule)
		}
		if r.Fade < 0 || math.IsNaN(float64(r.Fade)) {
			return nil, fmt.Errorf("rule %d fade %v: %w", i, r.Fade, ErrInvalidRule)
		}
	}
	return &tableSelector{rules: append([]Rule(nil), rules...)}, nil
}

func (t *tableSelector) Select(snap input.Snapshot, current string) (Selection, error) {
	for _, r := range t.rules {
		if r.matches(snap) {
			return Selection{Clip: r.Clip, Fade: r.Fade}, nil
		}
	}
	return Selection{Clip: current}, nil
}

// ruleDocument is the YAML form of a Rule. Intents are written by name.
type ruleDocument struct {
	All  []string `yaml:"all,omitempty"`
	Any  []string `yaml:"any,omitempty"`
	Clip string   `yaml:"clip"`
	Fade float32  `yaml:"fade,omitempty"`
}

// DecodeRules reads a YAML list of rules such as:
//
//	- {any: [up], clip: jump, fade: 0.1}
//	- {all: [forward], clip: walk}
//	- {clip: idle}
//
// Parameters:
//   - r: the YAML source
//
// Returns:
//   - []Rule: the decoded rules in order
//   - error: error if the document is malformed or names an unknown intent
func DecodeRules(r io.Reader) ([]Rule, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var docs []ruleDocument
	if err := dec.Decode(&docs); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoRules
		}
		return nil, fmt.Errorf("failed to decode selector rules: %w", err)
	}

	rules := make([]Rule, 0, len(docs))
	for i, d := range docs {
		all, err := parseIntents(d.All)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		anyOf, err := parseIntents(d.Any)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		rules = append(rules, Rule{All: all, Any: anyOf, Clip: d.Clip, Fade: d.Fade})
	}
	return rules, nil
}

// LoadTableSelector reads a YAML rule file and builds a table selector from it.
//
// Parameters:
//   - path: the rule file
//
// Returns:
//   - Selector: the rule table selector
//   - error: error if the file cannot be read or its rules are invalid
func LoadTableSelector(path string) (Selector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rules, err := DecodeRules(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewTableSelector(rules...)
}

func parseIntents(names []string) ([]input.Intent, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]input.Intent, len(names))
	for i, name := range names {
		intent, err := input.ParseIntent(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRule, err)
		}
		out[i] = intent
	}
	return out, nil
}
