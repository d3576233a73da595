package rfc9211

import "testing"

func TestCacheStatusString(t *testing.T) {
	tests := []struct {
		cs   func() CacheStatus
		want string
	}{
		{func() CacheStatus { var cs CacheStatus; cs.Hit(); return cs }, "go2web; hit"},
		{func() CacheStatus { cs := CacheStatus{TimeToLive: 376}; cs.Hit(); return cs }, "go2web; hit; ttl=376"},
		{func() CacheStatus { var cs CacheStatus; cs.Forward(FwdReasonUriMiss); return cs }, "go2web; fwd=uri-miss"},
		{func() CacheStatus {
			cs := CacheStatus{FwdStatus: 304}
			cs.Forward(FwdReasonStale)
			return cs
		}, "go2web; fwd=stale; fwd-status=304"},
		{func() CacheStatus {
			cs := CacheStatus{FwdStatus: 200, Stored: true, TimeToLive: 60}
			cs.Forward(FwdReasonUriMiss)
			return cs
		}, "go2web; fwd=uri-miss; fwd-status=200; ttl=60; stored"},
		{func() CacheStatus {
			cs := CacheStatus{Detail: "no-store"}
			cs.Forward(FwdReasonBypass)
			return cs
		}, `go2web; fwd=bypass; detail="no-store"`},
	}
	for _, tt := range tests {
		if got := tt.cs().String(); got != tt.want {
			t.Fatalf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestHitClearsForwardReason(t *testing.T) {
	var cs CacheStatus
	cs.Forward(FwdReasonStale)
	cs.Hit()
	if cs.FwdReason != "" || cs.Status != StatusHit {
		t.Fatalf("status = %+v", cs)
	}
}
