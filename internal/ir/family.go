package ir

import "strings"

// Family is the closed set of typological families the engine supports.
type Family string

const (
	FamilyAgglutinative Family = "agglutinative"
	FamilyAustronesian  Family = "austronesian"
	FamilyCeltic        Family = "celtic"
	FamilyDravidian     Family = "dravidian"
	FamilyGermanic      Family = "germanic"
	FamilyIsolating     Family = "isolating"
	FamilyPolysynthetic Family = "polysynthetic"
)

// Families lists every known family in declaration order.
var Families = []Family{
	FamilyAgglutinative,
	FamilyAustronesian,
	FamilyCeltic,
	FamilyDravidian,
	FamilyGermanic,
	FamilyIsolating,
	FamilyPolysynthetic,
}

// familyAliases maps alternative spellings to the canonical tag.
var familyAliases = map[string]Family{
	"analytic": FamilyIsolating,
	"turkic":   FamilyAgglutinative,
	"uralic":   FamilyAgglutinative,
}

// ParseFamily maps a family tag to a Family. Matching is case-insensitive.
func ParseFamily(s string) (Family, bool) {
	tag := strings.ToLower(strings.TrimSpace(s))
	for _, f := range Families {
		if string(f) == tag {
			return f, true
		}
	}
	if f, ok := familyAliases[tag]; ok {
		return f, true
	}
	return "", false
}

// Valid reports whether f is one of the known families.
func (f Family) Valid() bool {
	for _, known := range Families {
		if f == known {
			return true
		}
	}
	return false
}
