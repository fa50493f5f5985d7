package ingest

import "strings"

// romanValues maps Roman numeral characters to their values.
var romanValues = map[byte]int{
	'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000,
}

// validRomanPairs lists which character may follow each Roman numeral
// character in a well-formed numeral.
var validRomanPairs = map[byte]string{
	'I': "IVX",
	'V': "I",
	'X': "IVXLC",
	'L': "IVX",
	'C': "IVXLCDM",
	'D': "IVXLC",
	'M': "IVXLCDM",
}

// IsRoman reports whether s is a plausibly well-formed Roman numeral in
// uppercase. Legislative numbering never exceeds the classic alphabet, so a
// pairwise check is enough.
func IsRoman(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if _, ok := romanValues[s[i]]; !ok {
			return false
		}
		if i+1 < len(s) && !strings.ContainsRune(validRomanPairs[s[i]], rune(s[i+1])) {
			return false
		}
	}
	return true
}

// RomanToInt converts a Roman numeral to its integer value. It returns 0
// when s is not a valid numeral.
func RomanToInt(s string) int {
	if !IsRoman(s) {
		return 0
	}
	total, prev := 0, 0
	for i := len(s) - 1; i >= 0; i-- {
		v := romanValues[s[i]]
		if v >= prev {
			total += v
		} else {
			total -= v
		}
		prev = v
	}
	return total
}
