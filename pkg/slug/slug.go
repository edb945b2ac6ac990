package slug

import (
	"regexp"
	"strings"
)

var nonAlnumRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// cyrillic maps Cyrillic runes to their Latin transliterations.
var cyrillic = strings.NewReplacer(
	"а", "a", "б", "b", "в", "v", "г", "g", "д", "d", "е", "e", "ё", "e",
	"ж", "zh", "з", "z", "и", "i", "й", "y", "к", "k", "л", "l", "м", "m",
	"н", "n", "о", "o", "п", "p", "р", "r", "с", "s", "т", "t", "у", "u",
	"ф", "f", "х", "h", "ц", "ts", "ч", "ch", "ш", "sh", "щ", "shch",
	"ъ", "", "ы", "y", "ь", "", "э", "e", "ю", "yu", "я", "ya",
	"і", "i", "ї", "yi", "є", "ye", "ґ", "g",
)

// Generate creates a URL-friendly slug from the given name.
// Cyrillic characters are transliterated to ASCII; everything else that is
// not alphanumeric collapses into single hyphens.
//
// Examples:
//   - "Hair Clipper Pro" → "hair-clipper-pro"
//   - "Машинка для стрижки" → "mashinka-dlya-strizhki"
//   - "Hello   World!" → "hello-world"
func Generate(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = cyrillic.Replace(s)
	s = nonAlnumRegexp.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return s
}
