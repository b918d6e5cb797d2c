// Package normalize turns raw Dublin Core strings into stable,
// filesystem-safe names. Every function here is pure and never fails.
package normalize // import "github.com/Takashicc/repub/internal/util/normalize"

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Takashicc/repub/internal/model"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Full-width forms of ASCII 0x21-0x7E.
const (
	fullWidthFirst = 0xFF01
	fullWidthLast  = 0xFF5E
)

// runes.Map transformers hold no state and can be shared; chains cannot.
var (
	halfWidth = runes.Map(func(r rune) rune {
		if r >= fullWidthFirst && r <= fullWidthLast {
			return r - 0xFF00 + 0x20
		}
		return r
	})

	unsafeSymbols = runes.Map(func(r rune) rune {
		switch r {
		case '<':
			return '＜'
		case '>':
			return '＞'
		case ':':
			return '：'
		case '"':
			return '＂'
		case '/':
			return '／'
		case '\\':
			return '￥'
		case '!':
			return '！'
		case '?':
			return '？'
		case '*':
			return '＊'
		}
		return r
	})

	roundBrackets = runes.Map(func(r rune) rune {
		switch r {
		case '（':
			return '('
		case '）':
			return ')'
		}
		return r
	})
)

// Leading blanks are part of each match so " 07" maps onto itself.
var (
	spacedNumber   = regexp.MustCompile(`[\s\p{Zs}]*\(?(\d+)\)?[\s\p{Zs}]+`)
	trailingNumber = regexp.MustCompile(`[\s\p{Zs}]*\(?(\d+)\)?$`)
	volumeNumber   = regexp.MustCompile(`[\s\p{Zs}]*第?(\d+)巻?$`)
)

func apply(s string, t ...transform.Transformer) string {
	out, _, err := transform.String(transform.Chain(t...), s)
	if err != nil {
		return s
	}
	return out
}

// ToHalfWidth folds U+FF01..U+FF5E onto their ASCII counterparts.
func ToHalfWidth(s string) string {
	return apply(s, halfWidth)
}

// ReplaceUnsafeSymbols swaps characters that are illegal in file names on
// common filesystems for full-width look-alikes.
func ReplaceUnsafeSymbols(s string) string {
	return apply(s, unsafeSymbols)
}

func ReplaceRoundBrackets(s string) string {
	return apply(s, roundBrackets)
}

// RemoveChars deletes every literal occurrence of each entry.
func RemoveChars(s string, charList []string) string {
	for _, c := range charList {
		if c == "" {
			continue
		}
		s = strings.ReplaceAll(s, c, "")
	}
	return s
}

// PadNumbers rewrites volume numbers to a space and two zero-padded digits.
// The passes run in order, each one on the output of the previous.
func PadNumbers(s string) string {
	s = padMatches(spacedNumber, s, " ")
	s = padMatches(trailingNumber, s, "")
	s = padMatches(volumeNumber, s, "")
	return s
}

func padMatches(re *regexp.Regexp, s, suffix string) string {
	return re.ReplaceAllStringFunc(s, func(match string) string {
		sub := re.FindStringSubmatch(match)
		if sub == nil {
			return match
		}
		n, err := strconv.Atoi(sub[1])
		if err != nil {
			return match
		}
		return fmt.Sprintf(" %02d%s", n, suffix)
	})
}

// CollapseSpaces squeezes whitespace runs (U+3000 included) to one space
// and trims both ends.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Normalizer applies the author and title pipelines.
type Normalizer struct {
	charList []string
}

// New returns a Normalizer removing charList entries from titles.
func New(charList []string) *Normalizer {
	return &Normalizer{charList: charList}
}

func (n *Normalizer) Author(author string) string {
	author = apply(author, halfWidth, unsafeSymbols)
	return CollapseSpaces(author)
}

// Title runs the stages in order: fold, unsafe symbols, brackets, character
// list, number padding, spaces. Padding expects ASCII brackets and digits.
func (n *Normalizer) Title(title string) string {
	title = apply(title, halfWidth, unsafeSymbols, roundBrackets)
	title = RemoveChars(title, n.charList)
	title = PadNumbers(title)
	return CollapseSpaces(title)
}

// Metadata returns a normalized copy; unset fields stay unset.
func (n *Normalizer) Metadata(m model.BookMetadata) model.BookMetadata {
	var out model.BookMetadata
	if m.Author != nil {
		out.SetAuthor(n.Author(*m.Author))
	}
	if m.Title != nil {
		out.SetTitle(n.Title(*m.Title))
	}
	return out
}
