package render

import (
	"strings"

	"github.com/go-enry/go-enry/v2"
)

var languageCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown",
}

// detectLanguage guesses a fence tag for untagged code. It returns "" when
// enry is not confident.
func detectLanguage(code []byte) string {
	if len(code) == 0 {
		return ""
	}
	if lang, safe := enry.GetLanguageByShebang(code); safe {
		return strings.ToLower(lang)
	}
	if lang, safe := enry.GetLanguageByClassifier(code, languageCandidates); safe && lang != "" {
		return strings.ToLower(lang)
	}
	return ""
}
