package person

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseFolder(t *testing.T) {
	tests := []struct {
		name      string
		folder    string
		wantName  string
		wantBirth string
	}{
		{"basic", "John Doe 05-1990", "John Doe", "05/1990"},
		{"thai name", "กมลภพ เทพขวัญ 12-1985", "กมลภพ เทพขวัญ", "12/1985"},
		{"extra spaces", "  Jane   Roe  01-2001 ", "Jane Roe", "01/2001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseFolder(tt.folder)
			if err != nil {
				t.Fatalf("ParseFolder(%q) failed: %v", tt.folder, err)
			}
			if p.Name != tt.wantName {
				t.Errorf("Name: got %q, want %q", p.Name, tt.wantName)
			}
			if p.BirthDate != tt.wantBirth {
				t.Errorf("BirthDate: got %q, want %q", p.BirthDate, tt.wantBirth)
			}
			if p.HN != "" || p.Gender != "" || p.Film != "" {
				t.Errorf("unexpected fields populated: %+v", p)
			}
		})
	}
}

func TestParseFolder_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		folder string
	}{
		{"empty", ""},
		{"two tokens", "John 05-1990"},
		{"four tokens", "John Doe Jr 05-1990"},
		{"bad month", "John Doe 13-1990"},
		{"wrong layout", "John Doe 1990-05"},
		{"not a date", "John Doe unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFolder(tt.folder)
			if err == nil {
				t.Fatalf("ParseFolder(%q) should fail", tt.folder)
			}
			if !errors.Is(err, ErrMalformedFolder) {
				t.Errorf("error %v is not ErrMalformedFolder", err)
			}
		})
	}
}

func TestParseScanDir(t *testing.T) {
	film, err := ParseScanDir("CL 06-2019")
	if err != nil {
		t.Fatalf("ParseScanDir failed: %v", err)
	}
	if film != "06/2019" {
		t.Errorf("film: got %q, want 06/2019", film)
	}

	film, err = ParseScanDir("XR_11-2020")
	if err != nil {
		t.Fatalf("ParseScanDir failed: %v", err)
	}
	if film != "11/2020" {
		t.Errorf("film: got %q, want 11/2020", film)
	}

	for _, bad := range []string{"CL", "CL ", "CL 2019"} {
		if _, err := ParseScanDir(bad); !errors.Is(err, ErrMalformedFolder) {
			t.Errorf("ParseScanDir(%q): got %v, want ErrMalformedFolder", bad, err)
		}
	}
}

func TestCompleteness(t *testing.T) {
	full := Person{Name: "John Doe", HN: "1234567", Gender: "ชาย", BirthDate: "05/1990", Film: "06/2019"}

	tests := []struct {
		name        string
		p           Person
		wantMissing []string
	}{
		{"all populated", full, nil},
		{"zero value", Person{}, []string{"name", "hn", "gender", "birthDate", "film"}},
		{"missing hn", Person{Name: "A B", Gender: "x", BirthDate: "01/2000", Film: "01/2020"}, []string{"hn"}},
		{"blank gender", Person{Name: "A B", HN: "123456", Gender: "  ", BirthDate: "01/2000", Film: "01/2020"}, []string{"gender"}},
		{"missing dates", Person{Name: "A B", HN: "123456", Gender: "x"}, []string{"birthDate", "film"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.p.Missing()
			if !reflect.DeepEqual(got, tt.wantMissing) {
				t.Errorf("Missing: got %v, want %v", got, tt.wantMissing)
			}
			if tt.p.Complete() != (len(tt.wantMissing) == 0) {
				t.Errorf("Complete: got %v with missing %v", tt.p.Complete(), got)
			}
		})
	}
}

func TestIncomplete(t *testing.T) {
	persons := []Person{
		{Name: "A B", HN: "123456", Gender: "x", BirthDate: "01/2000", Film: "01/2020"},
		{Name: "C D", BirthDate: "02/2000"},
		{Name: "E F", HN: "654321", Gender: "y", BirthDate: "03/2000"},
	}

	got := Incomplete(persons)
	if len(got) != 2 {
		t.Fatalf("Incomplete: got %d records, want 2", len(got))
	}
	if got[0].Name != "C D" || got[1].Name != "E F" {
		t.Errorf("Incomplete order: got %q, %q", got[0].Name, got[1].Name)
	}
}
