package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func turkishPhonetics() Phonetics {
	return Phonetics{
		Vowels:       "aeıioöuü",
		DefaultVowel: "e",
		HarmonyGroups: map[string][]string{
			"front": {"e", "i", "ö", "ü"},
			"back":  {"a", "ı", "o", "u"},
		},
	}
}

func TestPhonetics_ClassifyStem(t *testing.T) {
	p := turkishPhonetics()

	g, ok := p.ClassifyStem("ev")
	assert.True(t, ok)
	assert.Equal(t, "front", g)

	g, ok = p.ClassifyStem("oda")
	assert.True(t, ok)
	assert.Equal(t, "back", g)

	g, ok = p.ClassifyStem("kız")
	assert.True(t, ok)
	assert.Equal(t, "back", g)

	g, ok = p.ClassifyStem("krx")
	assert.True(t, ok, "no vowel falls back to the default vowel")
	assert.Equal(t, "front", g)
}

func TestPhonetics_OverlappingGroupsAreDeterministic(t *testing.T) {
	p := Phonetics{HarmonyGroups: map[string][]string{"zeta": {"i"}, "alpha": {"i"}}}
	for i := 0; i < 20; i++ {
		g, _ := p.HarmonyGroup('i')
		assert.Equal(t, "alpha", g)
	}
}

func TestPhonetics_FallbackVowels(t *testing.T) {
	var p Phonetics
	assert.True(t, p.IsVowel('a'))
	assert.True(t, p.IsVowel('E'))
	assert.False(t, p.IsVowel('k'))
	assert.Equal(t, 1, p.FirstVowelIndex("kain"))
	assert.Equal(t, -1, p.FirstVowelIndex("xyz"))
	assert.True(t, p.EndsWithVowel("oda"))
	assert.False(t, p.StartsWithVowel(""))
}

func TestLanguageCard_HasSection(t *testing.T) {
	var nilCard *LanguageCard
	assert.False(t, nilCard.HasSection(FamilyCeltic))

	card := &LanguageCard{Celtic: &CelticSection{}}
	assert.True(t, card.HasSection(FamilyCeltic))
	assert.False(t, card.HasSection(FamilyGermanic))
	assert.False(t, card.HasSection(Family("klingon")))
}

func TestSectionDefaults(t *testing.T) {
	assert.True(t, (&DravidianSection{}).PluralFirst())
	no := false
	assert.False(t, (&DravidianSection{PluralBeforeCase: &no}).PluralFirst())
	assert.True(t, (&IsolatingSection{}).Spaced())
	assert.False(t, (&IsolatingSection{UseSpaces: &no}).Spaced())
}
