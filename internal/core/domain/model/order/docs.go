// Package order contains the Order aggregate: a freight request posted by a
// customer and claimed by at most one driver at a time.
//
// The aggregate only guards its own consistency (status, driver, deadline).
// Cross-aggregate rules, such as a driver holding a single order, live in the
// services package and are persisted atomically by the application layer.
package order
