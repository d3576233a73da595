package go2web

import (
	"errors"

	"github.com/always-cache/go2web/pkg/http1"
	"github.com/always-cache/go2web/pkg/transport"
)

// Errors returned by Fetch and Do. Match them with errors.Is.
var (
	ErrInvalidURL        = http1.ErrInvalidURL
	ErrEmptyResponse     = http1.ErrEmptyResponse
	ErrMalformedResponse = http1.ErrMalformedResponse
	ErrConnectFailure    = transport.ErrConnectFailure
	ErrTimeout           = transport.ErrTimeout

	ErrRedirectWithoutLocation = errors.New("go2web: redirect without location")
	ErrTooManyRedirects        = errors.New("go2web: too many redirects")
)
