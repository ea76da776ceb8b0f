// Package morph implements the typology-aware morphological synthesis engine.
//
// A lemma plus a feature bundle is turned into a surface form by one of seven
// family strategies, each driven entirely by the tables of a LanguageCard:
//
//	Agglutinative  - harmonic suffix chains with buffer consonants
//	Austronesian   - reduplication, prefix, infix, suffix
//	Celtic         - initial consonant mutation and gendered derivation
//	Dravidian      - plural/case stacking with vowel sandhi
//	Germanic       - gendered professions, adjective endings, articles
//	Isolating      - classifiers, particles and TAM word order
//	Polysynthetic  - templatic verb-word assembly
//
// ARCHITECTURE:
//
// Engine is a dispatcher. It owns no mutable state; strategies are
// zero-size values and cards are immutable, so one Engine serves any number
// of goroutines without locking.
//
// CRITICAL PATTERNS:
//
// Totality:
// Nothing in this package returns an error or panics on bad data. A missing
// table is identity, a missing key falls back to the table's "default" entry
// and then to identity, an unknown family yields the bare lemma.
//
// Determinism:
// The same (family, lemma, features, card) always yields the same SurfaceForm,
// trace included. Rule lists are matched longest-first with declaration order
// breaking ties; map iteration never influences output.
package morph
