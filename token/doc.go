// Package token mints and validates the opaque bearer tokens issued on login.
//
// Tokens are HS256-signed JWTs carrying exactly {uid, iat, exp}. Validity is
// determined solely by signature and expiry: no backing store is consulted,
// which is what makes [Issuer.Verify] safe to call from stateless
// request-authenticating middleware. The session:<id> cache mirror written by
// the engine is observability only and never checked here.
//
// # What this package must NOT do
//
//   - Perform I/O. Issue and Verify are pure CPU.
//   - Import any other authcore package.
package token
