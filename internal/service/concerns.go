package service

import (
	"regexp"
	"slices"
	"strings"
)

// Concern messages produced by CheckConcerns.
const (
	ConcernFormattedMismatch = "Zip and/or street numbers in input and formatted addresses do not match"
	ConcernReverseMismatch   = "Zip and/or street numbers in input and reverse geocoded addresses do not match"
)

var digitRun = regexp.MustCompile(`\d+`)

// CheckConcerns compares the numbers (street number, zip code and anything else numeric)
// of the input address with those of the formatted and the reverse geocoded address.
// The result is empty when both sequences match the input.
//
// Whole ordered sequences are compared, so a suite number that the reverse lookup drops
// is reported as a mismatch.
func CheckConcerns(input, formatted, reverse string) ([]string, error) {
	if input == "" || formatted == "" || reverse == "" {
		return nil, withContext(ErrMissingField, opConcerns, input)
	}

	concerns := []string{}
	inputNumbers := numericTokens(input)

	if !slices.Equal(inputNumbers, numericTokens(formatted)) {
		concerns = append(concerns, ConcernFormattedMismatch)
	}

	if !slices.Equal(inputNumbers, numericTokens(reverse)) {
		concerns = append(concerns, ConcernReverseMismatch)
	}

	return concerns, nil
}

// numericTokens returns the digit runs of s by value, so "080246" and "80246" compare equal.
func numericTokens(s string) []string {
	runs := digitRun.FindAllString(s, -1)
	for i, run := range runs {
		trimmed := strings.TrimLeft(run, "0")
		if trimmed == "" {
			trimmed = "0"
		}
		runs[i] = trimmed
	}

	return runs
}
