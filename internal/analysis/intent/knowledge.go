package intent

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed knowledge.yaml
var defaultKnowledge []byte

var (
	ErrEmptyKnowledge = errors.New("knowledge base has no entries")
	ErrInvalidEntry   = errors.New("invalid knowledge entry")
	ErrInvalidRule    = errors.New("invalid key phrase rule")
)

// Entry maps a canonical question to its canned answer.
type Entry struct {
	Key      string `yaml:"key" json:"key"`
	Response string `yaml:"response" json:"response"`
}

// PhraseRule redirects any input containing Phrase to the entry named Target.
type PhraseRule struct {
	Phrase string `yaml:"phrase" json:"phrase"`
	Target string `yaml:"target" json:"target"`
}

// KnowledgeBase is the static data behind the assistant. Slices keep their
// authored order because matching precedence depends on it.
type KnowledgeBase struct {
	Greeting    string       `yaml:"greeting"`
	Fallback    string       `yaml:"fallback"`
	Suggestions []string     `yaml:"suggestions"`
	Entries     []Entry      `yaml:"entries"`
	Phrases     []PhraseRule `yaml:"phrases"`
}

// Default returns the embedded storefront knowledge base.
func Default() (*KnowledgeBase, error) {
	return Parse(defaultKnowledge)
}

// MustDefault is Default for package initialisation and tests.
func MustDefault() *KnowledgeBase {
	kb, err := Default()
	if err != nil {
		panic(err)
	}
	return kb
}

// LoadFile reads a knowledge base from a YAML file.
func LoadFile(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge file %s: %w", path, err)
	}
	kb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("knowledge file %s: %w", path, err)
	}
	return kb, nil
}

// Parse decodes and validates a YAML knowledge base.
func Parse(data []byte) (*KnowledgeBase, error) {
	var kb KnowledgeBase
	if err := yaml.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("decode knowledge: %w", err)
	}
	if err := kb.Validate(); err != nil {
		return nil, err
	}
	return &kb, nil
}

// Validate checks that keys are normalized and unique and that every phrase
// rule points at an existing entry.
func (kb *KnowledgeBase) Validate() error {
	if len(kb.Entries) == 0 {
		return ErrEmptyKnowledge
	}

	keys := make(map[string]struct{}, len(kb.Entries))
	for i, entry := range kb.Entries {
		if entry.Key == "" || strings.TrimSpace(entry.Response) == "" {
			return fmt.Errorf("%w: entry %d needs a key and a response", ErrInvalidEntry, i)
		}
		if Normalize(entry.Key) != entry.Key {
			return fmt.Errorf("%w: key %q is not normalized", ErrInvalidEntry, entry.Key)
		}
		if _, dup := keys[entry.Key]; dup {
			return fmt.Errorf("%w: duplicate key %q", ErrInvalidEntry, entry.Key)
		}
		keys[entry.Key] = struct{}{}
	}

	for i, rule := range kb.Phrases {
		if rule.Phrase == "" || Normalize(rule.Phrase) != rule.Phrase {
			return fmt.Errorf("%w: rule %d phrase %q must be non-empty and normalized", ErrInvalidRule, i, rule.Phrase)
		}
		if _, ok := keys[rule.Target]; !ok {
			return fmt.Errorf("%w: rule %q targets unknown key %q", ErrInvalidRule, rule.Phrase, rule.Target)
		}
	}
	return nil
}
