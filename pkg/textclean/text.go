package textclean

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxSearchLength caps a search term in runes.
const MaxSearchLength = 100

type ITextService interface {
	ReduceToLength(input string, length int) string
	SearchTerm(input string) string
}

// TextService cleans free text typed by users before it reaches a store filter.
// Punctuation is kept: brand names such as "rom&nd" or "L'Oreal" must match as typed,
// and escaping is the job of each store encoder.
type TextService struct{}

func NewTextService() *TextService {
	return &TextService{}
}

// ReduceToLength keeps whole words while the result fits in length runes.
// A single word longer than length is cut.
func (ts *TextService) ReduceToLength(input string, length int) string {
	words := strings.Fields(input)
	var builder strings.Builder
	total := 0
	for i, word := range words {
		n := len([]rune(word))
		if i > 0 {
			n++
		}
		if total+n > length {
			if i == 0 {
				return string([]rune(word)[:length])
			}
			break
		}
		if i > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(word)
		total += n
	}
	return builder.String()
}

// SearchTerm normalizes a search box value: Hangul composed to NFC so decomposed
// input matches stored names, control characters dropped, whitespace collapsed.
func (ts *TextService) SearchTerm(input string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, norm.NFC.String(input))
	return ts.ReduceToLength(cleaned, MaxSearchLength)
}
