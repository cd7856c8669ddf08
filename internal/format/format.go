package format

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var ErrInvalidWeight = errors.New("invalid weight")

var DefaultLocale = language.MustParse("de-DE")

var dateLayouts = map[string]string{
	"de": "02.01.2006",
	"en": "01/02/2006",
}

const fallbackDateLayout = "2006-01-02"

type Formatter struct {
	tag        language.Tag
	loc        *time.Location
	dateLayout string
	decimalSep string
	groupSep   string
	grouped    *regexp.Regexp
}

func New(tag language.Tag, loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.Local
	}

	f := &Formatter{
		tag:        tag,
		loc:        loc,
		dateLayout: fallbackDateLayout,
	}

	base, _ := tag.Base()
	if layout, ok := dateLayouts[base.String()]; ok {
		f.dateLayout = layout
	}

	f.decimalSep, f.groupSep = separators(tag)
	if f.groupSep != "" {
		f.grouped = regexp.MustCompile(`^\d{1,3}(` + regexp.QuoteMeta(f.groupSep) + `\d{3})+$`)
	}

	return f
}

// separators derives the decimal and grouping symbols the locale prints.
func separators(tag language.Tag) (decimal, group string) {
	sample := message.NewPrinter(tag).Sprint(
		number.Decimal(1234567.5, number.MinFractionDigits(1), number.MaxFractionDigits(1)),
	)

	var symbols []string
	for _, r := range sample {
		if !unicode.IsDigit(r) {
			symbols = append(symbols, string(r))
		}
	}

	switch len(symbols) {
	case 0:
		return ".", ""
	case 1:
		return symbols[0], ""
	default:
		return symbols[len(symbols)-1], symbols[0]
	}
}

func (f *Formatter) Tag() language.Tag {
	return f.tag
}

// FormatWeight rounds w to one decimal and prints it with the locale's separators.
func (f *Formatter) FormatWeight(w float64) string {
	return message.NewPrinter(f.tag).Sprint(
		number.Decimal(RoundWeight(w), number.MaxFractionDigits(1)),
	)
}

// FormatDateTime prints the calendar date of t, or an empty string for the zero time.
func (f *Formatter) FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(f.loc).Format(f.dateLayout)
}

// ParseWeight accepts both "." and "," as decimal separators, as well as
// input grouped the way FormatWeight prints it. Weights that round to zero
// are rejected.
func (f *Formatter) ParseWeight(input string) (float64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidWeight)
	}

	w, err := strconv.ParseFloat(f.normalize(s), 64)
	if err != nil || math.IsNaN(w) || math.IsInf(w, 0) || RoundWeight(w) <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWeight, input)
	}

	return w, nil
}

func (f *Formatter) normalize(s string) string {
	switch {
	case f.decimalSep != "." && strings.Contains(s, f.decimalSep):
		if f.groupSep != "" {
			s = strings.ReplaceAll(s, f.groupSep, "")
		}
		return strings.ReplaceAll(s, f.decimalSep, ".")
	case f.decimalSep == "." && strings.Contains(s, "."):
		if f.groupSep != "" {
			s = strings.ReplaceAll(s, f.groupSep, "")
		}
		return s
	case f.grouped != nil && f.grouped.MatchString(s):
		return strings.ReplaceAll(s, f.groupSep, "")
	case f.groupSep != "":
		return strings.ReplaceAll(s, f.groupSep, ".")
	default:
		return s
	}
}

func RoundWeight(w float64) float64 {
	return math.Round(w*10) / 10
}
