// Package userservice answers whether a username is still available.
//
// Every Service publishes the username it is asked about on Requests
// before it resolves the lookup. The stream is diagnostic only.
//
// Three implementations are provided:
//
//   - Stub answers from memory and reports every username as available
//     unless configured otherwise.
//   - S3Directory treats an object named <prefix><username> as a claim.
//   - SQLDirectory reads an accounts table through gorm.
//
// Lookup failures other than "available" or "taken" are reported as
// ErrServiceUnavailable.
package userservice
