// Package dispatch turns chat events into ledger operations and tells the
// participants what happened.
//
// Every Facade method runs exactly one ledger command and only then talks to
// the Notifier. A failed notification is logged and queued in the outbox; it
// never turns a committed operation into a failure. Callers get a Result with
// a tagged Outcome instead of an error.
//
//	res := facade.RequestClaim(ctx, driverID, orderID)
//	switch res.Outcome {
//	case dispatch.OK:
//	case dispatch.AlreadyClaimed:
//	    // show res.Reply to the driver
//	}
package dispatch
