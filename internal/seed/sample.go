package seed

import "peoplemover/internal/domain"

// SamplePeople returns the fixed demo records for the input store.
func SamplePeople() []domain.Person {
	return []domain.Person{
		{Name: "Richard Cunningham", Nickname: "Richie", Gender: "male", Age: 19},
		{Name: "Arthur Herbert Fonzarelli", Nickname: "Fonzie", Gender: "male", Age: 20},
		{Name: "Joanie Cunningham", Nickname: "Joanie", Gender: "female", Age: 20},
	}
}

// FillerCount is how many identical filler rows the bulk endpoint inserts.
const FillerCount = 99999

// FillerPeople returns n identical filler records for load demos.
func FillerPeople(n int) []domain.Person {
	people := make([]domain.Person, n)
	for i := range people {
		people[i] = domain.Person{
			Name:     "Someone else",
			Nickname: "Too boring to have a nickname",
			Gender:   "Unclear",
			Age:      25,
		}
	}
	return people
}
