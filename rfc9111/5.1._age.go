package rfc9111

import (
	"strings"
	"time"
)

// §  5.1.  Age
// §
// §     The "Age" response header field conveys the sender's estimate of the
// §     time since the response was generated or successfully validated at
// §     the origin server.  Age values are calculated as specified in
// §     Section 4.2.3.
// §
// §       Age = delta-seconds
// §
// §     The Age field value is a non-negative integer, representing time in
// §     seconds (see Section 1.2.2).
func getAge(h Header) (time.Duration, bool) {
	value := h.Get("Age")
	// §     Although it is defined as a singleton header field, a cache
	// §     encountering a message with a list-based Age field value SHOULD use
	// §     the first member of the field value, discarding subsequent ones.
	if first, _, found := strings.Cut(value, ","); found {
		value = first
	}
	// §     If the field value (after discarding additional members, as per
	// §     above) is invalid (e.g., it contains something other than a non-
	// §     negative integer), a cache SHOULD ignore the field.
	return deltaSeconds(strings.TrimSpace(value))
}
