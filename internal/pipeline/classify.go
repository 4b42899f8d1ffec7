package pipeline

import "peoplemover/internal/domain"

// ── Classifier ─────────────────────────────────────────────
// A Classifier decides the derived is_cool attribute for one input record.
// Implementations must be pure: deterministic, no side effects, no external
// state. The runner takes any Classifier, so the rule can be swapped without
// touching orchestration.

// Classifier derives the is_cool flag from an input person.
type Classifier interface {
	Classify(p domain.Person) bool
}

// ClassifierFunc adapts a plain function to the Classifier interface.
type ClassifierFunc func(domain.Person) bool

func (f ClassifierFunc) Classify(p domain.Person) bool { return f(p) }

// NicknameClassifier marks a person cool when their nickname matches exactly.
type NicknameClassifier struct {
	Nickname string
}

func (c NicknameClassifier) Classify(p domain.Person) bool {
	return p.Nickname == c.Nickname
}

// DefaultClassifier returns the shipping rule: cool means nicknamed Fonzie.
func DefaultClassifier() Classifier {
	return NicknameClassifier{Nickname: "Fonzie"}
}
