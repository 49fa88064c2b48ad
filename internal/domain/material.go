package domain

import "golang.org/x/text/language"

// Material is one entry of the recyclable-materials catalog. The catalog is
// maintained by an external collaborator; the core reads it for display and
// trusts referential integrity on schedule creation.
type Material struct {
	ID            string
	NamePT        string
	NameEN        string
	DescriptionPT string
	DescriptionEN string
}

// Portuguese first: it is the locale of the original deployment, so it also
// serves as the fallback for unrecognized Accept-Language values.
var materialMatcher = language.NewMatcher([]language.Tag{
	language.Portuguese,
	language.English,
})

// Name returns the material name for the requested locale.
func (m Material) Name(locale string) string {
	if localeIndex(locale) == 1 {
		return m.NameEN
	}
	return m.NamePT
}

// Description returns the material description for the requested locale.
func (m Material) Description(locale string) string {
	if localeIndex(locale) == 1 {
		return m.DescriptionEN
	}
	return m.DescriptionPT
}

func localeIndex(locale string) int {
	if locale == "" {
		return 0
	}
	_, idx := language.MatchStrings(materialMatcher, locale)
	return idx
}
