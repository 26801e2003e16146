// Package person holds the record assembled for each scanned patient folder.
//
// A folder is named "<first> <last> <mm-yyyy>", where the trailing token is
// the birth month. ParseFolder turns that name into a Person; the OCR stage
// later fills the remaining fields in place.
package person

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Date layouts. Folder and scan directory names use FolderDateLayout,
// records are reported with DateLayout.
const (
	FolderDateLayout = "01-2006"
	DateLayout       = "01/2006"
)

// ErrMalformedFolder is returned when a folder or scan directory name does
// not follow the expected naming convention.
var ErrMalformedFolder = errors.New("malformed folder name")

// Person is one extracted record. An empty string means the field was not
// found.
type Person struct {
	Name      string `json:"name"`
	HN        string `json:"hn"`
	Gender    string `json:"gender"`
	BirthDate string `json:"birthDate"`
	Film      string `json:"film"`
}

// RawData is the unprocessed OCR capture for one folder, used when field
// extraction is skipped.
type RawData struct {
	Name string `json:"name"`
	Raw  string `json:"raw"`
}

// Gap is a problem worth reporting that did not abort the run.
type Gap struct {
	Name   string `json:"name"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (g Gap) String() string {
	return fmt.Sprintf("%s: %s: %s", g.Name, g.Field, g.Reason)
}

// Fields lists the record's field names in column order.
func Fields() []string {
	return []string{"name", "hn", "gender", "birthDate", "film"}
}

// Values returns the field values in the order of Fields.
func (p Person) Values() []string {
	return []string{p.Name, p.HN, p.Gender, p.BirthDate, p.Film}
}

// Missing returns the names of the fields that are empty.
func (p Person) Missing() []string {
	var missing []string
	names := Fields()
	for i, v := range p.Values() {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, names[i])
		}
	}
	return missing
}

// Complete reports whether every field is populated.
func (p Person) Complete() bool {
	return len(p.Missing()) == 0
}

// Incomplete filters persons down to those with at least one empty field,
// preserving order.
func Incomplete(persons []Person) []Person {
	var out []Person
	for _, p := range persons {
		if !p.Complete() {
			out = append(out, p)
		}
	}
	return out
}

// ParseFolder builds a Person from a folder named "<first> <last> <mm-yyyy>".
// The birth month is reformatted to DateLayout. Names with a token count other
// than three, or with an unparseable date, are rejected.
func ParseFolder(name string) (Person, error) {
	tokens := strings.Fields(name)
	if len(tokens) != 3 {
		return Person{}, fmt.Errorf("%w: %q has %d tokens, want 3", ErrMalformedFolder, name, len(tokens))
	}

	birth, err := ReformatDate(tokens[2])
	if err != nil {
		return Person{}, fmt.Errorf("%w: %q: %v", ErrMalformedFolder, name, err)
	}

	return Person{
		Name:      tokens[0] + " " + tokens[1],
		BirthDate: birth,
	}, nil
}

// scanPrefixLen is the length of the scan-type prefix ahead of the date in a
// scan directory name, e.g. "CL 05-2021".
const scanPrefixLen = 3

// ParseScanDir extracts the film date from a scan directory name made of a
// three character prefix followed by "mm-yyyy".
func ParseScanDir(name string) (string, error) {
	runes := []rune(name)
	if len(runes) <= scanPrefixLen {
		return "", fmt.Errorf("%w: scan directory %q too short", ErrMalformedFolder, name)
	}
	film, err := ReformatDate(strings.TrimSpace(string(runes[scanPrefixLen:])))
	if err != nil {
		return "", fmt.Errorf("%w: scan directory %q: %v", ErrMalformedFolder, name, err)
	}
	return film, nil
}

// ReformatDate converts "mm-yyyy" into DateLayout.
func ReformatDate(s string) (string, error) {
	t, err := time.Parse(FolderDateLayout, s)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", s, err)
	}
	return t.Format(DateLayout), nil
}
