package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"peoplemover/internal/domain"
	"peoplemover/internal/pipeline"
)

func TestNicknameClassifier(t *testing.T) {
	c := pipeline.DefaultClassifier()

	require.True(t, c.Classify(domain.Person{Name: "Arthur Herbert Fonzarelli", Nickname: "Fonzie"}))
	require.False(t, c.Classify(domain.Person{Name: "Richard Cunningham", Nickname: "Richie"}))
	require.False(t, c.Classify(domain.Person{Nickname: "fonzie"}), "match is exact, not case-folded")
	require.False(t, c.Classify(domain.Person{Name: "Fonzie"}), "only the nickname counts")
}

func TestClassifierFunc(t *testing.T) {
	adults := pipeline.ClassifierFunc(func(p domain.Person) bool { return p.Age >= 18 })

	require.True(t, adults.Classify(domain.Person{Age: 20}))
	require.False(t, adults.Classify(domain.Person{Age: 12}))
}
