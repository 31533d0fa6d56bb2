// Package user contains the User aggregate: a chat account that posts orders
// as a customer or claims them as a driver, plus the role and car catalogue
// value types.
package user
