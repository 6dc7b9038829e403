package errors

import "errors"

// Suggestions provides helpful suggestions for common errors.
var Suggestions = map[error]string{
	ErrMedicineNotFound: "Use 'pillbox med list' to see registered medicines.",
	ErrHistoryNotFound:  "Use 'pillbox history' to see recorded doses.",
	ErrWebhookNotFound:  "Use 'pillbox notify list' to see configured sinks.",
	ErrInvalidTimeLabel: "Use the 12-hour form like '10:00 AM' or '06:30 PM'.",
	ErrInvalidQuantity:  "Dose quantity must be a positive whole number.",
	ErrInvalidUnit:      "Use one of: pills, ampoule, application, drop, gram, injection, milligram, teaspoon.",
	ErrInvalidAdvice:    "Use one of: None, 'Before meal', 'With meal', 'After meal'.",
	ErrEndBeforeStart:   "Check your dates - the end date must not come before the start date.",
	ErrInvalidDate:      "Try formats like 'today', 'next monday', or '2026-01-15'.",
	ErrStoreFailure:     "The change was not saved. Retry the command.",
}

// GetSuggestion returns a suggestion for an error, if available.
func GetSuggestion(err error) string {
	if ue, ok := AsUserError(err); ok && ue.Suggestion != "" {
		return ue.Suggestion
	}
	for knownErr, suggestion := range Suggestions {
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}
	return ""
}

// FormatError formats an error with an optional suggestion appended.
func FormatError(err error) string {
	msg := err.Error()
	if suggestion := GetSuggestion(err); suggestion != "" {
		msg += "\n" + suggestion
	}
	return msg
}
