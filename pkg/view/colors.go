package view

// DefaultLanguageColor is used for unknown or missing languages.
const DefaultLanguageColor = "#6366f1"

var languageColors = map[string]string{
	"TypeScript":   "#3178c6",
	"JavaScript":   "#f1e05a",
	"Python":       "#3572A5",
	"Java":         "#b07219",
	"C":            "#555555",
	"C++":          "#f34b7d",
	"Go":           "#00ADD8",
	"Rust":         "#dea584",
	"Ruby":         "#701516",
	"PHP":          "#4F5D95",
	"HTML":         "#e34c26",
	"CSS":          "#563d7c",
	"Shell":        "#89e051",
	"CoffeeScript": "#244776",
}

// LanguageColor returns the hex badge color for a language.
func LanguageColor(language *string) string {
	if language == nil {
		return DefaultLanguageColor
	}
	if c, ok := languageColors[*language]; ok {
		return c
	}
	return DefaultLanguageColor
}
