// Package auth provides the authentication and authorization primitives
// shared by the token service, the access guard and the resource services.
//
// This package implements:
//   - Caller identity carried by bearer tokens
//   - The closed role enumeration (user, admin)
//   - Authorization header parsing
package auth
