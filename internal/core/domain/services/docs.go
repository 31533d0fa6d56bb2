// Package services holds domain logic that spans more than one aggregate.
//
// OrderClaimer keeps an Order and the driver's User aggregate consistent
// through claim, confirm and release, and defines the ledger's business
// errors (ErrAlreadyClaimed, ErrDriverBusy, ErrNotHolder, ...).
package services
