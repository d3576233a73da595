package http1

import "errors"

var (
	ErrInvalidURL        = errors.New("http1: invalid url")
	ErrEmptyResponse     = errors.New("http1: empty response")
	ErrMalformedResponse = errors.New("http1: malformed response")
)
