// Package markdown defines the markdown-to-Scrapbox conversion
// boundary. The grammar translation itself lives behind the Converter
// interface; this package only fixes the contract the rest of the
// application programs against.
package markdown

import "fmt"

// Options tunes a conversion.
type Options struct {
	// ConvertNumberedLists rewrites "1. item" markdown lists into
	// Scrapbox's indented list syntax instead of keeping the numbers.
	ConvertNumberedLists bool
}

// Converter turns markdown text into Scrapbox markup.
type Converter interface {
	Convert(text string, opts Options) (string, error)
}

// ConversionError reports invalid converter input.
type ConversionError struct {
	Reason string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("markdown conversion failed: %s", e.Reason)
}

// Passthrough returns the input unchanged. It is the default wiring;
// Scrapbox renders plain text lines as-is, so an unconverted body
// stays readable even if markdown syntax is not translated.
type Passthrough struct{}

// Convert implements Converter.
func (Passthrough) Convert(text string, _ Options) (string, error) {
	return text, nil
}
