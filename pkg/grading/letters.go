package grading

import (
	"strings"
)

// ParseLetters splits a comma-joined answer into upper-cased option letters.
// Blanks are dropped and duplicates keep their first position.
func ParseLetters(s string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		l := strings.ToUpper(strings.TrimSpace(part))
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

func JoinLetters(letters []string) string {
	return strings.Join(letters, ",")
}

// SameLetterSet compares two answers as sets, ignoring case, order and repeats.
func SameLetterSet(a, b string) bool {
	la, lb := ParseLetters(a), ParseLetters(b)
	if len(la) != len(lb) {
		return false
	}
	set := make(map[string]bool, len(la))
	for _, l := range la {
		set[l] = true
	}
	for _, l := range lb {
		if !set[l] {
			return false
		}
	}
	return true
}

// ToggleLetter adds letter to a multiple-choice answer when checked and removes it otherwise.
func ToggleLetter(current, letter string, checked bool) string {
	l := strings.ToUpper(strings.TrimSpace(letter))
	letters := ParseLetters(current)
	if l == "" {
		return JoinLetters(letters)
	}

	out := make([]string, 0, len(letters)+1)
	present := false
	for _, existing := range letters {
		if existing == l {
			present = true
			if !checked {
				continue
			}
		}
		out = append(out, existing)
	}
	if checked && !present {
		out = append(out, l)
	}
	return JoinLetters(out)
}

// OptionLetter returns the letter labelling the option at index i (0 -> "A").
func OptionLetter(i int) string {
	return string(rune('A' + i))
}
