package rfc9111

import "time"

// §  4.2.3.  Calculating Age
// §
// §     Age calculation uses the following data:
// §
// §     "age_value"
// §        The term "age_value" denotes the value of the Age header field
// §        (Section 5.1), in a form appropriate for arithmetic operation; or
// §        0, if not available.
func ageValue(h Header) time.Duration {
	age, _ := getAge(h)
	return age
}

// §     the age of the response when it is received:
// §
// §       corrected_age_value = age_value + response_delay;
//
// Responses are timed from the request being sent, so response_delay is
// already part of the resident time and is taken as zero here. The
// apparent_age from the Date header is not used because the local clock
// is not trusted to agree with the origin's.
func initialAge(h Header) time.Duration {
	return ageValue(h)
}

// RemainingLifetime returns how long a just-received response stays fresh:
// its freshness lifetime minus the age it arrived with.
//
// §     The response is fresh if its freshness lifetime exceeds its current
// §     age.
func RemainingLifetime(h Header, heuristic time.Duration) time.Duration {
	remaining := FreshnessLifetime(h, heuristic) - initialAge(h)
	if remaining < 0 {
		return 0
	}
	return remaining
}
