// Package lang maps the terminology's 3-letter language codes to the
// ISO 639-1 2-letter codes FHIR servers expect in displayLanguage.
package lang

import "sort"

// DefaultCode is the language assumed when a code has no mapping.
const DefaultCode = "ENG"

// displayLanguages maps internal 3-letter codes to ISO 639-1 codes.
var displayLanguages = map[string]string{
	"BAQ": "eu", // Basque
	"CHI": "zh", // Chinese
	"CZE": "cs", // Czech
	"DAN": "da", // Danish
	"DUT": "nl", // Dutch
	"ENG": "en", // English
	"EST": "et", // Estonian
	"FIN": "fi", // Finnish
	"FRE": "fr", // French
	"GER": "de", // German
	"GRE": "el", // Greek
	"HEB": "he", // Hebrew
	"HUN": "hu", // Hungarian
	"ITA": "it", // Italian
	"JPN": "ja", // Japanese
	"KOR": "ko", // Korean
	"LAV": "lv", // Latvian
	"NOR": "no", // Norwegian
	"POL": "pl", // Polish
	"POR": "pt", // Portuguese
	"RUS": "ru", // Russian
	"SCR": "hr", // Croatian
	"SPA": "es", // Spanish
	"SWE": "sv", // Swedish
	"TUR": "tr", // Turkish
}

// Display returns the 2-letter display language for a 3-letter code.
// Unknown codes fall back to English.
func Display(code string) string {
	if d, ok := displayLanguages[code]; ok {
		return d
	}
	return "en"
}

// Known reports whether code has an explicit mapping.
func Known(code string) bool {
	_, ok := displayLanguages[code]
	return ok
}

// Codes returns the known 3-letter codes in sorted order.
func Codes() []string {
	out := make([]string, 0, len(displayLanguages))
	for c := range displayLanguages {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
