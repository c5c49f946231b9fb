package services

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Krankheitsnamen kommen in vielen Schreibweisen an ("Joubert syndrome
// type 5", "JOUBERT SYNDROME, TYPE V", "Joubert-syndrome 5"). Für die
// Deduplizierung wird jeder Name auf eine kanonische Form gebracht:
// Kleinschreibung, Satzzeichen raus, römische Typ-Nummern arabisch,
// Tokens alphabetisch sortiert.

var (
	smartQuoteRe   = regexp.MustCompile("[“”\"]")
	trailingQualRe = regexp.MustCompile(`\s*\(?(biallelic|autosomal)\)?$`)
	romanTypeRe    = regexp.MustCompile(`type ([xvi]+)$`)
	typeNumberRe   = regexp.MustCompile(` type (\d+)$`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// CleanDiseaseName normalisiert einen Krankheitsnamen in seine
// kanonische Vergleichsform.
func CleanDiseaseName(name string) string {
	s := strings.TrimSpace(name)
	s = strings.TrimLeft(s, "?")
	s = strings.TrimRight(s, ".")

	s = strings.ReplaceAll(s, ",", " ")
	s = smartQuoteRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.ToLower(s)

	s = strings.ReplaceAll(s, " and ", " ")
	s = strings.ReplaceAll(s, " or ", " ")

	s = trailingQualRe.ReplaceAllString(s, "")

	// "type iv" am Ende → "type 4"
	if m := romanTypeRe.FindStringSubmatch(s); m != nil {
		if n := romanToArabic(m[1]); n > 0 {
			s = romanTypeRe.ReplaceAllString(s, "type "+strconv.Itoa(n))
		}
	}

	// "syndrome type 5" → "syndrome 5"
	s = typeNumberRe.ReplaceAllString(s, " $1")

	s = strings.ReplaceAll(s, "(", " ")
	s = strings.ReplaceAll(s, ")", " ")
	s = whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")

	tokens := strings.Split(s, " ")
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// romanToArabic wandelt eine kleine römische Zahl (i, v, x) um.
// 0 bei ungültiger Eingabe.
func romanToArabic(roman string) int {
	values := map[byte]int{'i': 1, 'v': 5, 'x': 10}
	total := 0
	for i := 0; i < len(roman); i++ {
		v, ok := values[roman[i]]
		if !ok {
			return 0
		}
		if i+1 < len(roman) && values[roman[i+1]] > v {
			total -= v
		} else {
			total += v
		}
	}
	return total
}
