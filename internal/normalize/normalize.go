// Package normalize rewrites clipboard text: line-break runs collapse into a
// single space and, optionally, blankspace is removed altogether.
package normalize

import (
	"regexp"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

const newlineReplacement = " "

var newlineRunPattern = regexp.MustCompile(`[\r\n]+`)

// blankspaceTable lists the runes deleted by CollapseBlankspace. Newlines are
// not part of it.
var blankspaceTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0009, Hi: 0x0009, Stride: 1},
		{Lo: 0x0020, Hi: 0x0020, Stride: 1},
		{Lo: 0x00A0, Hi: 0x00A0, Stride: 1},
		{Lo: 0x2000, Hi: 0x200A, Stride: 1},
		{Lo: 0x202F, Hi: 0x202F, Stride: 1},
		{Lo: 0x205F, Hi: 0x205F, Stride: 1},
		{Lo: 0x3000, Hi: 0x3000, Stride: 1},
	},
	LatinOffset: 3,
}

// Options controls the optional steps of Apply.
type Options struct {
	StripBlankspace bool
}

// CollapseNewlines replaces every run of CR and LF characters with one space.
func CollapseNewlines(text string) string {
	return failSafe(text, func(input string) (string, error) {
		return newlineRunPattern.ReplaceAllLiteralString(input, newlineReplacement), nil
	})
}

// CollapseBlankspace deletes spaces, tabs, no-break spaces and the Unicode
// space separators.
func CollapseBlankspace(text string) string {
	return failSafe(text, func(input string) (string, error) {
		output, _, err := transform.String(runes.Remove(runes.In(blankspaceTable)), input)
		return output, err
	})
}

// IsBlankspace reports whether r belongs to the set removed by CollapseBlankspace.
func IsBlankspace(r rune) bool {
	return unicode.Is(blankspaceTable, r)
}

// Apply runs the newline collapse and, when enabled, the blankspace removal.
func Apply(text string, options Options) string {
	processed := CollapseNewlines(text)
	if options.StripBlankspace {
		processed = CollapseBlankspace(processed)
	}
	return processed
}

// failSafe returns the input unchanged when the transformation fails or panics,
// so a fault never turns into a destructive clipboard overwrite.
func failSafe(text string, transformation func(string) (string, error)) (result string) {
	if text == "" {
		return ""
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			result = text
		}
	}()
	output, err := transformation(text)
	if err != nil {
		return text
	}
	return output
}
