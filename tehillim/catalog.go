// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tehillim

import "fmt"

const (
	// UnitCount is the number of addressable units in the book:
	// psalms 1-118, the 22 parts of psalm 119, then psalms 120-150.
	UnitCount = 171

	// BookPsalms is the number of numbered psalms.
	BookPsalms = 150

	// Psalm119Parts is how many units psalm 119 is split into,
	// one per letter of the Hebrew alphabet, 8 verses each.
	Psalm119Parts = 22

	// Psalm119VersesPerPart is the verse count of each part of psalm 119.
	Psalm119VersesPerPart = 8
)

// Unit is one addressable segment of Tehillim.
type Unit struct {
	ID            int    `json:"id"`
	EnglishNumber int    `json:"englishNumber"`
	PartNumber    int    `json:"partNumber"`
	HebrewNumber  string `json:"hebrewNumber"`
}

var units [UnitCount]Unit

func init() {
	id := 1
	add := func(english, part int) {
		units[id-1] = Unit{
			ID:            id,
			EnglishNumber: english,
			PartNumber:    part,
			HebrewNumber:  hebrewNumeral(english),
		}
		id++
	}

	for n := 1; n <= 118; n++ {
		add(n, 1)
	}
	for p := 1; p <= Psalm119Parts; p++ {
		add(119, p)
	}
	for n := 120; n <= BookPsalms; n++ {
		add(n, 1)
	}
}

// Units returns all 171 units in (englishNumber, partNumber) order.
func Units() []Unit {
	out := make([]Unit, UnitCount)
	copy(out, units[:])
	return out
}

// ByID looks up a unit by its 1-171 id.
func ByID(id int) (Unit, bool) {
	if id < 1 || id > UnitCount {
		return Unit{}, false
	}
	return units[id-1], true
}

// ByEnglishAndPart looks up a unit by psalm number and part number.
func ByEnglishAndPart(english, part int) (Unit, bool) {
	for _, u := range units {
		if u.EnglishNumber == english && u.PartNumber == part {
			return u, true
		}
	}
	return Unit{}, false
}

// Next returns the unit following the given one in reading order.
// Psalm 119 advances part by part; psalm 150 wraps back to psalm 1.
func Next(id int) (Unit, bool) {
	cur, ok := ByID(id)
	if !ok {
		return Unit{}, false
	}
	if cur.EnglishNumber == 119 && cur.PartNumber < Psalm119Parts {
		return ByEnglishAndPart(119, cur.PartNumber+1)
	}
	if cur.EnglishNumber == BookPsalms {
		return ByEnglishAndPart(1, 1)
	}
	return ByEnglishAndPart(cur.EnglishNumber+1, 1)
}

// DisplayTitle renders the user-facing title for a unit.
func DisplayTitle(u Unit) string {
	if u.EnglishNumber == 119 {
		return fmt.Sprintf("Tehillim 119 (Part %d)", u.PartNumber)
	}
	return fmt.Sprintf("Tehillim %d", u.EnglishNumber)
}

// Part119VerseRange returns the 1-indexed inclusive verse range of a
// part of psalm 119.
func Part119VerseRange(part int) (start, end int) {
	start = (part-1)*Psalm119VersesPerPart + 1
	end = part * Psalm119VersesPerPart
	return start, end
}

var hebrewOnes = [...]string{"", "א", "ב", "ג", "ד", "ה", "ו", "ז", "ח", "ט"}
var hebrewTens = [...]string{"", "י", "כ", "ל", "מ", "נ", "ס", "ע", "פ", "צ"}

// hebrewNumeral renders n (1-499) as a traditional Hebrew numeral.
// 15 and 16 use the customary טו and טז forms.
func hebrewNumeral(n int) string {
	s := ""
	for n >= 100 {
		s += "ק"
		n -= 100
	}
	// Avoid letter pairs spelling the divine name.
	if n == 15 {
		return s + "טו"
	}
	if n == 16 {
		return s + "טז"
	}
	return s + hebrewTens[n/10] + hebrewOnes[n%10]
}
