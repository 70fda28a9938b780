package meeting

import "time"

// GracePeriod extends token validity past the scheduled end so marking
// can finish after the class lets out.
const GracePeriod = 30 * time.Minute

// WindowOpen reports whether a verification window may be opened at now:
// at least half the scheduled duration must have elapsed, and the meeting
// must not have ended. Both boundaries are inclusive.
func WindowOpen(start, end, now time.Time) bool {
	duration := end.Sub(start)
	elapsed := now.Sub(start)
	return elapsed >= duration/2 && !now.After(end)
}

// ExpiryFor returns the token expiry for a meeting ending at end. Fixed at
// activation time and never recomputed.
func ExpiryFor(end time.Time) time.Time {
	return end.Add(GracePeriod)
}

// Expired reports whether a token expiring at expiry is no longer valid
// at now. Validity ends at the expiry instant itself.
func Expired(expiry, now time.Time) bool {
	return !now.Before(expiry)
}
