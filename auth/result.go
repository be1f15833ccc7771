package auth

import (
	"time"

	"github.com/nubarte/marketplace-client/session"
	"github.com/nubarte/marketplace-client/users"
)

// ResultKind discriminates the outcome of a login attempt.
type ResultKind int

const (
	// KindValidationError means a field failed local validation; no network
	// call was made.
	KindValidationError ResultKind = iota
	// KindSuccess means the session is fully established.
	KindSuccess
	// KindBlocked means the account is temporarily locked. Terminal for this
	// attempt; no state transition happened.
	KindBlocked
	// KindSecondFactorRequired means the challenge flow has been entered.
	KindSecondFactorRequired
	// KindFailure covers rejected credentials and transport failures.
	KindFailure
)

// Result is the per-attempt outcome consumed immediately by the caller. The
// meaningful fields depend on Kind.
type Result struct {
	Kind    ResultKind
	Message string

	// Blocked
	UnlockAt         time.Time
	MinutesRemaining int

	// Second factor required
	Method       users.SecondFactorMethod
	PendingEmail string

	// Failure
	AttemptsRemaining *int

	// Success
	Session session.Session
}
