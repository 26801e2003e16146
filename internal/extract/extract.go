// Package extract pulls record fields out of raw OCR text.
//
// OCR output is split into lines and "Label: value" lines are reduced to
// their value. Each field then has its own heuristic: the hospital number is
// the first long numeric line, gender is the first line naming a sex, and the
// birth and film dates are the earliest and latest ISO dates on the card.
package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/th-dev-git/QSnich-img-processing/internal/person"
)

const (
	// minHNLength is the exclusive lower bound on a hospital number's length.
	minHNLength = 5

	isoDateLayout   = "2006-01-02"
	monthYearLayout = "01-2006"
)

var lineBreak = regexp.MustCompile(`\r?\n`)

// Gender is the outcome of gender classification.
type Gender int

const (
	GenderNone Gender = iota
	GenderMale
	GenderFemale
	GenderUnknown
)

func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	case GenderUnknown:
		return "unknown"
	default:
		return "none"
	}
}

// Labels are the localized strings written into a record for each gender.
type Labels struct {
	Male   string
	Female string
}

// DefaultLabels returns the Thai labels used on the hospital's forms.
func DefaultLabels() Labels {
	return Labels{Male: "ชาย", Female: "หญิง"}
}

// Label returns the record value for g. Unknown and none map to "".
func (l Labels) Label(g Gender) string {
	switch g {
	case GenderMale:
		return l.Male
	case GenderFemale:
		return l.Female
	default:
		return ""
	}
}

// Lines splits OCR text on line breaks. A line containing a colon is reduced
// to the trimmed segment between its first and second colon; other lines are
// kept verbatim.
func Lines(text string) []string {
	raw := lineBreak.Split(text, -1)
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if parts := strings.Split(line, ":"); len(parts) > 1 {
			line = strings.TrimSpace(parts[1])
		}
		lines = append(lines, line)
	}
	return lines
}

// HN returns the first line longer than five characters that parses as a
// finite number, or "" when there is none.
func HN(lines []string) string {
	for _, line := range lines {
		candidate := strings.TrimSpace(line)
		if len(candidate) <= minHNLength {
			continue
		}
		v, err := strconv.ParseFloat(candidate, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		return candidate
	}
	return ""
}

// ClassifyGender inspects the first line mentioning "Male" or "Female".
// A line naming only one of them is classified accordingly; a line naming
// both is GenderUnknown. GenderNone means no line mentioned either.
func ClassifyGender(lines []string) Gender {
	for _, line := range lines {
		female := strings.Contains(line, "Female")
		male := strings.Contains(strings.ReplaceAll(line, "Female", ""), "Male")
		switch {
		case female && male:
			return GenderUnknown
		case female:
			return GenderFemale
		case male:
			return GenderMale
		}
	}
	return GenderNone
}

// Dates parses the first ten characters of every line as yyyy-mm-dd and
// returns the earliest and latest valid dates. ok is false when no line
// held a date.
func Dates(lines []string) (earliest, latest time.Time, ok bool) {
	for _, line := range lines {
		if len(line) < len(isoDateLayout) {
			continue
		}
		t, err := time.Parse(isoDateLayout, line[:len(isoDateLayout)])
		if err != nil {
			continue
		}
		if !ok || t.Before(earliest) {
			earliest = t
		}
		if !ok || t.After(latest) {
			latest = t
		}
		ok = true
	}
	return earliest, latest, ok
}

// Fields is everything the heuristics found in one OCR capture.
type Fields struct {
	HN     string
	Gender Gender
	Birth  time.Time
	Film   time.Time
}

// Parse runs every heuristic over text.
func Parse(text string) Fields {
	lines := Lines(text)
	f := Fields{
		HN:     HN(lines),
		Gender: ClassifyGender(lines),
	}
	if birth, film, ok := Dates(lines); ok {
		f.Birth, f.Film = birth, film
	}
	return f
}

// BirthDate returns the earliest date as "mm-yyyy", or "" if none was found.
func (f Fields) BirthDate() string {
	return monthYear(f.Birth)
}

// FilmDate returns the latest date as "mm-yyyy", or "" if none was found.
func (f Fields) FilmDate() string {
	return monthYear(f.Film)
}

func monthYear(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(monthYearLayout)
}

// Extractor fills Person records from OCR text.
type Extractor struct {
	labels Labels
}

// New returns an Extractor writing the given gender labels.
func New(labels Labels) *Extractor {
	return &Extractor{labels: labels}
}

// Apply parses text and fills p in place, returning any gaps worth reporting.
//
// The film date is only set when p has none yet, so a date taken from a scan
// directory name wins. The birth date read from the card replaces the
// folder-derived one only when the card showed two different months;
// a single date on the card is taken to be the film date.
func (e *Extractor) Apply(p *person.Person, text string) []person.Gap {
	f := Parse(text)
	var gaps []person.Gap

	p.HN = f.HN
	if p.HN == "" {
		gaps = append(gaps, person.Gap{Name: p.Name, Field: "hn", Reason: "no numeric line found"})
	}

	p.Gender = e.labels.Label(f.Gender)
	if f.Gender == GenderUnknown {
		gaps = append(gaps, person.Gap{Name: p.Name, Field: "gender", Reason: "line names both male and female"})
	}

	if p.Film == "" && !f.Film.IsZero() {
		p.Film = f.Film.Format(person.DateLayout)
	}
	if f.BirthDate() != f.FilmDate() {
		p.BirthDate = f.Birth.Format(person.DateLayout)
	}

	return gaps
}
