// Package validate contains the pure field validators. They never perform
// I/O and never return a Go error for bad user input: a malformed value
// produces a Rejection the controller turns into a re-prompt.
package validate

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"medintake/app/service/schema"
)

// Result is a successfully validated field value.
type Result struct {
	// Normalized is what gets stored in the slot: "2006-01-02" for dates,
	// the cleaned digit string for numerics, "true"/"false" for yes/no,
	// the trimmed text otherwise.
	Normalized string
	Date       time.Time
	Bool       bool
	// InferredYear is set when a date came in without a year and the
	// reference year was assumed, so the caller can say so out loud.
	InferredYear bool
}

type Rejection struct {
	Kind   schema.Kind
	Reason string
}

// Check validates a raw utterance value against a field kind. The reference
// date anchors year inference and the no-past-dates rule.
func Check(raw string, kind schema.Kind, ref time.Time) (*Result, *Rejection) {
	switch kind {
	case schema.KindDate:
		return checkDate(raw, ref)
	case schema.KindNumeric:
		return checkNumeric(raw)
	case schema.KindYesNo:
		return checkYesNo(raw)
	default:
		return checkFreeText(raw)
	}
}

// Date layouts with an explicit year.
var datedLayouts = []string{
	"2006-01-02",
	"2006.1.2",
	"1/2/2006",
	"1-2-2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
}

// Date layouts without a year; the reference year is assumed.
var yearlessLayouts = []string{
	"1/2",
	"1-2",
	"1.2",
	"January 2",
	"Jan 2",
	"2 January",
}

func checkDate(raw string, ref time.Time) (*Result, *Rejection) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, &Rejection{Kind: schema.KindDate, Reason: "empty date"}
	}

	var parsed time.Time
	var inferred bool
	ok := false

	for _, layout := range datedLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			parsed = t
			ok = true
			break
		}
	}

	if !ok {
		for _, layout := range yearlessLayouts {
			if t, err := time.Parse(layout, text); err == nil {
				parsed = time.Date(ref.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
				inferred = true
				ok = true
				break
			}
		}
	}

	if !ok {
		return nil, &Rejection{Kind: schema.KindDate, Reason: "unrecognized date format"}
	}

	day := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	refDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)

	if day.Before(refDay) {
		return nil, &Rejection{Kind: schema.KindDate, Reason: "date is in the past"}
	}

	return &Result{
		Normalized:   day.Format("2006-01-02"),
		Date:         day,
		InferredYear: inferred,
	}, nil
}

// Characters tolerated in spoken-number transcripts, phone numbers included.
var numericCleaner = strings.NewReplacer(
	"(", "", ")", "", "-", "", " ", "", "+", "",
)

func checkNumeric(raw string) (*Result, *Rejection) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, &Rejection{Kind: schema.KindNumeric, Reason: "empty number"}
	}

	// The sign must be checked before stripping: the cleaner removes
	// phone dashes and would silently drop a leading minus.
	if strings.HasPrefix(text, "-") {
		return nil, &Rejection{Kind: schema.KindNumeric, Reason: "negative number"}
	}

	cleaned := numericCleaner.Replace(text)
	if !strings.ContainsFunc(cleaned, unicode.IsDigit) {
		return nil, &Rejection{Kind: schema.KindNumeric, Reason: "not a number"}
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil, &Rejection{Kind: schema.KindNumeric, Reason: "not a number"}
	}

	if math.IsInf(value, 0) || math.IsNaN(value) || value < 0 {
		return nil, &Rejection{Kind: schema.KindNumeric, Reason: "not a valid amount"}
	}

	return &Result{Normalized: cleaned}, nil
}

var affirmativeTokens = map[string]bool{
	"yes": true, "yeah": true, "yep": true, "yup": true, "sure": true,
	"correct": true, "right": true, "affirmative": true, "true": true,
	"of course": true, "that's right": true, "ok": true, "okay": true,
}

var negativeTokens = map[string]bool{
	"no": true, "nope": true, "nah": true, "negative": true, "false": true,
	"incorrect": true, "wrong": true, "not really": true,
}

func checkYesNo(raw string) (*Result, *Rejection) {
	token := strings.ToLower(strings.TrimSpace(raw))
	token = strings.TrimRight(token, ".!,")

	if affirmativeTokens[token] {
		return &Result{Normalized: "true", Bool: true}, nil
	}
	if negativeTokens[token] {
		return &Result{Normalized: "false", Bool: false}, nil
	}

	return nil, &Rejection{Kind: schema.KindYesNo, Reason: "ambiguous yes/no answer"}
}

var placeholderTokens = map[string]bool{
	"n/a": true, "na": true, "-": true, "--": true, ".": true, "unknown": true,
}

func checkFreeText(raw string) (*Result, *Rejection) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, &Rejection{Kind: schema.KindFreeText, Reason: "empty value"}
	}
	if placeholderTokens[strings.ToLower(text)] {
		return nil, &Rejection{Kind: schema.KindFreeText, Reason: "placeholder value"}
	}

	return &Result{Normalized: text}, nil
}

// IsAffirmation reports whether the utterance reads as a clear yes or no,
// used for confirmation turns.
func IsAffirmation(raw string) (value bool, ok bool) {
	result, rejection := checkYesNo(raw)
	if rejection != nil {
		return false, false
	}
	return result.Bool, true
}
