package store

import (
	"sync"

	"github.com/goliatone/go-masker"
	"github.com/goliatone/go-timeline/pkg/types"
)

// SanitizerConfig controls the masker used when contact details are gated
// off for a caller.
type SanitizerConfig struct {
	Masker *masker.Masker
}

var defaultMaskerOnce sync.Once

// DefaultMasker returns a masker configured to redact contact fields.
func DefaultMasker() *masker.Masker {
	defaultMaskerOnce.Do(func() {
		if masker.Default == nil {
			return
		}
		registerContactMaskFields(masker.Default)
	})
	return masker.Default
}

// SanitizePerson masks the contact fields of a side-loaded person. Identity
// fields (ID, names) stay intact so the feed can still label rows.
func SanitizePerson(mask *masker.Masker, person types.Person) types.Person {
	if mask == nil {
		mask = DefaultMasker()
	}
	if mask == nil {
		person.Email = ""
		person.JobTitle = ""
		return person
	}
	masked, err := mask.Mask(person)
	if err != nil {
		person.Email = ""
		person.JobTitle = ""
		return person
	}
	if out, ok := masked.(types.Person); ok {
		return out
	}
	person.Email = ""
	person.JobTitle = ""
	return person
}

// SanitizePersons masks contact fields for every entry of a side-loaded
// person mapping, returning a fresh map.
func SanitizePersons(mask *masker.Masker, persons map[string]types.Person) map[string]types.Person {
	if len(persons) == 0 {
		return persons
	}
	out := make(map[string]types.Person, len(persons))
	for id, person := range persons {
		out[id] = SanitizePerson(mask, person)
	}
	return out
}

func registerContactMaskFields(mask *masker.Masker) {
	if mask == nil {
		return
	}
	mask.RegisterMaskField("Email", "filled4")
	mask.RegisterMaskField("email", "filled4")
	mask.RegisterMaskField("JobTitle", "filled4")
}
