// Package lang handles caption language preferences.
package lang

import (
	"fmt"
	"strings"
)

// Default is the preference list used when none is configured.
var Default = []string{"en"}

// languageNames maps the accepted ISO 639-1 base codes to English names.
// Not exhaustive: it covers the languages YouTube most often captions.
var languageNames = map[string]string{
	"af": "Afrikaans",
	"ar": "Arabic",
	"bg": "Bulgarian",
	"bn": "Bengali",
	"ca": "Catalan",
	"cs": "Czech",
	"da": "Danish",
	"de": "German",
	"el": "Greek",
	"en": "English",
	"es": "Spanish",
	"et": "Estonian",
	"fa": "Persian",
	"fi": "Finnish",
	"fr": "French",
	"gu": "Gujarati",
	"he": "Hebrew",
	"hi": "Hindi",
	"hr": "Croatian",
	"hu": "Hungarian",
	"id": "Indonesian",
	"it": "Italian",
	"ja": "Japanese",
	"kn": "Kannada",
	"ko": "Korean",
	"lt": "Lithuanian",
	"lv": "Latvian",
	"mk": "Macedonian",
	"ml": "Malayalam",
	"mr": "Marathi",
	"ms": "Malay",
	"nl": "Dutch",
	"no": "Norwegian",
	"pa": "Punjabi",
	"pl": "Polish",
	"pt": "Portuguese",
	"ro": "Romanian",
	"ru": "Russian",
	"sk": "Slovak",
	"sl": "Slovenian",
	"sr": "Serbian",
	"sv": "Swedish",
	"sw": "Swahili",
	"ta": "Tamil",
	"te": "Telugu",
	"th": "Thai",
	"tl": "Tagalog",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"ur": "Urdu",
	"vi": "Vietnamese",
	"zh": "Chinese",
}

// regionalNames names the locales users most often ask for.
var regionalNames = map[string]string{
	"en-us": "American English",
	"en-gb": "British English",
	"fr-ca": "Canadian French",
	"es-mx": "Mexican Spanish",
	"pt-br": "Brazilian Portuguese",
	"pt-pt": "European Portuguese",
	"zh-cn": "Simplified Chinese",
	"zh-tw": "Traditional Chinese",
}

// Normalize normalizes a language code to lowercase with hyphen separator.
// Accepts: "pt-BR", "pt_BR", "PT-BR", "pt-br" -> "pt-br"
func Normalize(lang string) string {
	return strings.ToLower(strings.ReplaceAll(lang, "_", "-"))
}

// Validate checks if the language code is valid.
// Accepts ISO 639-1 codes (e.g., "en", "fr") and locales (e.g., "pt-BR", "zh-CN").
// Returns ErrInvalid if the base language is not recognized.
func Validate(lang string) error {
	if lang == "" {
		return fmt.Errorf("empty language code: %w", ErrInvalid)
	}
	if _, ok := languageNames[BaseCode(lang)]; !ok {
		return fmt.Errorf("invalid language code %q (use ISO 639-1 codes like 'en', 'fr', 'pt-BR'): %w",
			lang, ErrInvalid)
	}
	return nil
}

// BaseCode extracts the ISO 639-1 base language code from a locale.
// Examples: "pt-BR" -> "pt", "zh-CN" -> "zh", "en" -> "en"
func BaseCode(lang string) string {
	if lang == "" {
		return ""
	}
	normalized := Normalize(lang)
	if idx := strings.Index(normalized, "-"); idx != -1 {
		return normalized[:idx]
	}
	return normalized
}

// ParseList parses a comma-separated preference list such as "en,fr,pt-BR".
// Entries are trimmed, normalized and validated; duplicates are dropped.
// An empty or blank list returns Default.
func ParseList(s string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		code := strings.TrimSpace(part)
		if code == "" {
			continue
		}
		if err := Validate(code); err != nil {
			return nil, err
		}
		code = Normalize(code)
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	if len(out) == 0 {
		return append([]string(nil), Default...), nil
	}
	return out, nil
}

// Matches reports whether a caption track language satisfies a preference.
// An exact locale match always counts. A bare preference ("en") also
// accepts regional tracks ("en-GB"); a regional preference ("en-GB") does
// not accept other regions.
func Matches(track, want string) bool {
	track, want = Normalize(track), Normalize(want)
	if track == want {
		return true
	}
	return !strings.Contains(want, "-") && BaseCode(track) == want
}

// DisplayName returns the English name of a code or locale, falling back
// to the base language and then to the code itself.
func DisplayName(lang string) string {
	normalized := Normalize(lang)
	if name, ok := regionalNames[normalized]; ok {
		return name
	}
	if name, ok := languageNames[BaseCode(normalized)]; ok {
		return name
	}
	return lang
}

// DisplayList joins the display names of codes with ", ".
func DisplayList(codes []string) string {
	names := make([]string, len(codes))
	for i, c := range codes {
		names[i] = DisplayName(c)
	}
	return strings.Join(names, ", ")
}
