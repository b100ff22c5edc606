// Package names holds the month, weekday, and time-of-day vocabularies used
// when rendering and parsing Bikram Sambat dates.
package names

import "strings"

// Months in English transliteration, Baishakh first.
var Months = [12]string{
	"Baishakh",
	"Jestha",
	"Asar",
	"Shrawan",
	"Bhadau",
	"Asoj",
	"Kartik",
	"Mangsir",
	"Poush",
	"Magh",
	"Falgun",
	"Chaitra",
}

// ShortMonths are the abbreviated English month names.
var ShortMonths = [12]string{
	"Bai",
	"Jes",
	"Asa",
	"Shr",
	"Bha",
	"Ash",
	"Kar",
	"Man",
	"Pou",
	"Mag",
	"Fal",
	"Cha",
}

// NepaliMonths are the colloquial month names.
var NepaliMonths = [12]string{
	"बैशाख",
	"जेठ",
	"असार",
	"साउन",
	"भदौ",
	"असोज",
	"कार्तिक",
	"मंसिर",
	"पुष",
	"माघ",
	"फागुन",
	"चैत",
}

// SanskritMonths are the traditional month names.
var SanskritMonths = [12]string{
	"वैशाख",
	"ज्येष्ठ",
	"आषाढ",
	"श्रावण",
	"भाद्र",
	"आश्विन",
	"कार्तिक",
	"मार्ग",
	"पौष",
	"माघ",
	"फाल्गुन",
	"चैत्र",
}

// Weekday tables are indexed Sunday=0 through Saturday=6.
var (
	Weekdays = [7]string{
		"Sunday",
		"Monday",
		"Tuesday",
		"Wednesday",
		"Thursday",
		"Friday",
		"Saturday",
	}

	ShortWeekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

	NepaliWeekdays = [7]string{
		"आइतबार",
		"सोमबार",
		"मंगलबार",
		"बुधबार",
		"बिहिबार",
		"शुक्रबार",
		"शनिबार",
	}

	NepaliShortWeekdays = [7]string{"आइत", "सोम", "मंगल", "बुध", "बिहि", "शुक्र", "शनि"}
)

// Periods of the day.
const (
	Morning   = "बिहान"
	Afternoon = "दिउँसो"
	Evening   = "बेलुका"
	Night     = "राति"
)

// Period returns the Nepali name for the part of the day containing hour.
func Period(hour int) string {
	switch {
	case hour >= 4 && hour < 12:
		return Morning
	case hour >= 12 && hour < 16:
		return Afternoon
	case hour >= 16 && hour < 20:
		return Evening
	default:
		return Night
	}
}

// monthIndex maps lower-cased English names and prefixes, and the exact
// Nepali spellings, to 1-based month numbers.
var monthIndex = func() map[string]int {
	idx := make(map[string]int)
	for i := range Months {
		idx[strings.ToLower(Months[i])] = i + 1
		idx[strings.ToLower(Months[i][:3])] = i + 1
		idx[strings.ToLower(ShortMonths[i])] = i + 1
		idx[NepaliMonths[i]] = i + 1
		idx[SanskritMonths[i]] = i + 1
	}
	return idx
}()

// MonthNumber resolves a month name in any supported vocabulary. English
// names are matched case-insensitively; Nepali names must match exactly.
func MonthNumber(name string) (int, bool) {
	if m, ok := monthIndex[name]; ok {
		return m, true
	}
	m, ok := monthIndex[strings.ToLower(name)]
	return m, ok
}
