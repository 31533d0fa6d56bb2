// Package errs provides the typed errors shared by the domain, the application
// layer and the persistence adapters.
//
// Every error type has a sentinel (ErrValueIsRequired, ErrObjectNotFound, ...)
// returned by Unwrap, so callers classify failures with errors.Is and read
// details with errors.As:
//
//	var notFound *errs.ObjectNotFoundError
//	if errors.As(err, &notFound) {
//	    log.Info("missing", zap.Any("id", notFound.ID))
//	}
//
// VersionIsInvalidError is what repositories return when a compare-and-set
// update touched no rows, i.e. another transaction changed the row first.
package errs
