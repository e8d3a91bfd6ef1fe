package ops

import "github.com/zeroprod/newsletter/types"

// ErrPersistence indicates that a Subscription couldn't be stored.
//
// handler checks for this error in order to return an HTTP 500.
const ErrPersistence = types.SentinelError("failed to persist subscription")

// ErrExternal indicates that an upstream AWS service reported a server fault.
const ErrExternal = types.SentinelError("external error")
