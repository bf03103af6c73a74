// Package errs holds the typed errors shared by the domain, application and adapter layers.
//
// Every type pairs a sentinel (ErrObjectNotFound, ErrValueIsInvalid, ErrValueIsOutOfRange,
// ErrValueIsRequired, ErrVersionIsInvalid) with a struct carrying details. Unwrap returns
// the sentinel, so callers classify with errors.Is and the HTTP layer maps sentinels to
// status codes. VersionIsInvalidError signals a lost optimistic-concurrency race.
package errs
