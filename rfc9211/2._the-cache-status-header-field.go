// Package rfc9211 implements the Cache-Status field of RFC 9211, used here
// to describe how a fetch was answered.
package rfc9211

import (
	"strconv"
	"strings"
)

// CacheName identifies this cache in Cache-Status values.
const CacheName = "go2web"

type Status string

const (
	StatusHit Status = "hit"
	StatusFwd Status = "fwd"
)

// §  2.2.  The fwd Parameter
// §
// §     "fwd" indicates that the request went forward towards the origin and
// §     why.
type FwdReason string

const (
	// §     bypass:  The cache was configured to not handle this request.
	FwdReasonBypass FwdReason = "bypass"
	// §     uri-miss:  The cache did not contain any responses that matched the
	// §        request URI.
	FwdReasonUriMiss FwdReason = "uri-miss"
	// §     miss:  The cache did not contain any responses that could be used to
	// §        satisfy this request
	FwdReasonMiss FwdReason = "miss"
	// §     stale:  The cache was able to select a response for the request, but
	// §        it was stale.
	FwdReasonStale FwdReason = "stale"
)

type CacheStatus struct {
	Status    Status
	FwdReason FwdReason
	// §  2.3.  The fwd-status Parameter
	// §
	// §     "fwd-status" indicates what status code the next hop server returned
	// §     in response to the forwarded request.
	FwdStatus int
	// §  2.4.  The ttl Parameter
	// §
	// §     "ttl" indicates the response's remaining freshness lifetime as
	// §     calculated by the cache, as an integer number of seconds
	TimeToLive int
	// §  2.5.  The stored Parameter
	// §
	// §     "stored" indicates whether the cache stored the response
	Stored bool
	Detail string
}

func (cs *CacheStatus) Hit() {
	cs.Status = StatusHit
	cs.FwdReason = ""
}

func (cs *CacheStatus) Forward(reason FwdReason) {
	cs.Status = StatusFwd
	cs.FwdReason = reason
}

// String formats the status as a Cache-Status member, for example
// "go2web; fwd=stale; fwd-status=304; ttl=3600; stored".
func (cs CacheStatus) String() string {
	parts := []string{CacheName}
	switch cs.Status {
	case StatusHit:
		parts = append(parts, string(StatusHit))
		if cs.TimeToLive != 0 {
			parts = append(parts, "ttl="+strconv.Itoa(cs.TimeToLive))
		}
	case StatusFwd:
		parts = append(parts, "fwd="+string(cs.FwdReason))
		if cs.FwdStatus != 0 {
			parts = append(parts, "fwd-status="+strconv.Itoa(cs.FwdStatus))
		}
		if cs.Stored {
			parts = append(parts, "ttl="+strconv.Itoa(cs.TimeToLive), "stored")
		}
	}
	if cs.Detail != "" {
		parts = append(parts, "detail="+strconv.Quote(cs.Detail))
	}
	return strings.Join(parts, "; ")
}
