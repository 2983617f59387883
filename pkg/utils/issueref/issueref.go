// Package issueref extracts issue references ("#123") from commit messages.
package issueref

import (
	"regexp"
	"strconv"
)

var issueNumberRE = regexp.MustCompile(`#(\d+)`)

// scan calls fn for every reference in message in order of appearance until fn returns false.
// Digit runs that do not fit in an int are not references.
func scan(message string, fn func(int) bool) {
	for offset := 0; offset < len(message); {
		loc := issueNumberRE.FindStringSubmatchIndex(message[offset:])
		if loc == nil {
			return
		}

		digits := message[offset+loc[2] : offset+loc[3]]
		offset += loc[1]

		n, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		if !fn(n) {
			return
		}
	}
}

// First returns the first issue number referenced in message
func First(message string) (int, bool) {
	var (
		found  bool
		number int
	)
	scan(message, func(n int) bool {
		number, found = n, true
		return false
	})
	return number, found
}

// All returns every issue number referenced in message, in order, duplicates preserved
func All(message string) []int {
	var numbers []int
	scan(message, func(n int) bool {
		numbers = append(numbers, n)
		return true
	})
	return numbers
}
