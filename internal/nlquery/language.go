package nlquery

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// LanguageDetector classifies the query language. It is an auxiliary signal
// only: implementations must return a usable code for any input.
type LanguageDetector interface {
	Detect(text string) string
}

// LinguaDetector wraps a lingua model restricted to the three languages the
// pipeline understands. Detection failure degrades to "en" rather than
// propagating.
type LinguaDetector struct {
	detector lingua.LanguageDetector
}

func NewLinguaDetector() *LinguaDetector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.English, lingua.Russian, lingua.Kazakh).
		Build()
	return &LinguaDetector{detector: detector}
}

func (d *LinguaDetector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return "en"
	}
	language, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "en"
	}
	return strings.ToLower(language.IsoCode639_1().String())
}
