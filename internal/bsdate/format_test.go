package bsdate

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestFormat_Date(t *testing.T) {
	d := MustNew(2080, 10, 24)

	tests := []struct {
		layout string
		want   string
	}{
		{"%Y-%m-%d", "2080-10-24"},
		{"%y/%m/%d", "80/10/24"},
		{"%B %d, %Y", "Magh 24, 2080"},
		{"%b", "Mag"},
		{"%A %a %w", "Tuesday Tue 2"},
		{"%j", "299"},
		{"%D %N, %K", "२४ माघ, २०८०"},
		{"%k/%n", "८०/१०"},
		{"%G %g", "मंगलबार मंगल"},
		{"no codes", "no codes"},
		{"%%Y", "%Y"},
		{"100%%", "100%"},
		{"%Q%Y", "%Q2080"},
		{"trailing %", "trailing %"},
		{"%Y%Y", "20802080"},
		// Time codes are left as written on a date.
		{"%Y %H:%M %p", "2080 %H:%M %p"},
		{"%z%Z", "%z%Z"},
	}

	for _, tt := range tests {
		if got := d.Format(tt.layout); got != tt.want {
			t.Errorf("Format(%q) = %q, want %q", tt.layout, got, tt.want)
		}
	}
}

func TestFormat_Style(t *testing.T) {
	d := MustNew(2080, 2, 1)

	if got := d.FormatStyle("%N", StyleFormal); got != "जेठ" {
		t.Errorf("formal %%N = %q, want %q", got, "जेठ")
	}
	if got := d.FormatStyle("%N", StyleSanskrit); got != "ज्येष्ठ" {
		t.Errorf("sanskrit %%N = %q, want %q", got, "ज्येष्ठ")
	}
	// Style only affects %N.
	if got := d.FormatStyle("%B", StyleSanskrit); got != "Jestha" {
		t.Errorf("sanskrit %%B = %q, want %q", got, "Jestha")
	}

	for _, s := range []string{"", "formal", "Sanskrit"} {
		if _, err := ParseStyle(s); err != nil {
			t.Errorf("ParseStyle(%q) failed: %v", s, err)
		}
	}
	if _, err := ParseStyle("vedic"); err == nil {
		t.Error("ParseStyle(vedic) should fail")
	}
}

func TestFormat_DateTime(t *testing.T) {
	dt := mustDateTime(t, 2080, 10, 24, 14, 30, 0, 0, nil)

	tests := []struct {
		layout string
		want   string
	}{
		{"%H:%M:%S", "14:30:00"},
		{"%I:%M %p", "02:30 PM"},
		{"%h:%i:%s", "१४:३०:००"},
		{"%P", "दिउँसो"},
		{"%f", "000000"},
		{"%Y-%m-%d %H:%M", "2080-10-24 14:30"},
		{"[%z][%Z]", "[][]"},
	}
	for _, tt := range tests {
		if got := dt.Format(tt.layout); got != tt.want {
			t.Errorf("Format(%q) = %q, want %q", tt.layout, got, tt.want)
		}
	}
}

func TestFormat_Hours(t *testing.T) {
	tests := []struct {
		hour   int
		want12 string
		ampm   string
		period string
	}{
		{0, "12", "AM", "राति"},
		{4, "04", "AM", "बिहान"},
		{11, "11", "AM", "बिहान"},
		{12, "12", "PM", "दिउँसो"},
		{16, "04", "PM", "बेलुका"},
		{20, "08", "PM", "राति"},
	}
	for _, tt := range tests {
		dt := mustDateTime(t, 2080, 10, 24, tt.hour, 0, 0, 0, nil)
		want := tt.want12 + " " + tt.ampm + " " + tt.period
		if got := dt.Format("%I %p %P"); got != want {
			t.Errorf("hour %d: Format = %q, want %q", tt.hour, got, want)
		}
	}
}

func TestFormat_Zone(t *testing.T) {
	dt := mustDateTime(t, 2080, 10, 24, 14, 30, 0, 0, NPT)
	if got := dt.Format("%z %Z"); got != "+0545 Asia/Kathmandu" {
		t.Errorf("Format(%%z %%Z) = %q", got)
	}

	west := dt.WithLocation(time.FixedZone("EST", -5*60*60))
	if got := west.Format("%z %Z"); got != "-0500 EST" {
		t.Errorf("Format(%%z %%Z) = %q", got)
	}
}

func TestAppendFormat(t *testing.T) {
	b := []byte("date: ")
	b = AppendFormat(b, MustNew(2080, 10, 24), "%Y-%m-%d", StyleFormal)
	if string(b) != "date: 2080-10-24" {
		t.Errorf("AppendFormat = %q", b)
	}
}

func TestParseLayout(t *testing.T) {
	prog := parseLayout("x%Y-%%-%Qy")
	var got []string
	for _, i := range prog {
		got = append(got, i.String())
	}
	if want := "x|%Y|-%-%Qy"; strings.Join(got, "|") != want {
		t.Errorf("parseLayout = %q, want %q", strings.Join(got, "|"), want)
	}
}

var layouts = []string{
	ISOLayout,
	DateTimeLayout,
	NepaliLayout,
	LongLayout,
	NepaliLong,
	"%I:%M %p",
	"%h:%i:%s %P",
}

// FuzzParseLayout checks that parseLayout does not panic and that layouts
// without codes render unchanged.
func FuzzParseLayout(f *testing.F) {
	for _, l := range layouts {
		f.Add(l)
	}
	d := MustNew(2080, 10, 24)
	f.Fuzz(func(t *testing.T, s string) {
		parseLayout(s)
		if !strings.Contains(s, "%") {
			if got := d.Format(s); got != s {
				t.Errorf("Format(%q) = %q", s, got)
			}
		}
	})
}

// FuzzFormat formats arbitrary days with arbitrary layouts to check that
// Format does not panic.
func FuzzFormat(f *testing.F) {
	for _, l := range layouts {
		f.Add(l, 65680, 14*3600)
	}
	f.Fuzz(func(t *testing.T, layout string, ordinal, seconds int) {
		d, err := FromOrdinal(ordinal)
		if err != nil {
			return
		}
		if seconds < 0 {
			seconds = -seconds
		}
		seconds %= 24 * 3600
		c := Clock{Hour: seconds / 3600, Minute: seconds / 60 % 60, Second: seconds % 60}
		dt, err := Combine(d, c, NPT)
		if err != nil {
			t.Fatal(err)
		}
		out := dt.Format(layout)
		if utf8.ValidString(layout) && !utf8.ValidString(out) {
			t.Errorf("Format(%q) produced invalid UTF-8 %q", layout, out)
		}
		d.Format(layout)
	})
}
