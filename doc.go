// Package auth implements the stateless authentication and authorization
// core for the SkillForge learning platform: credential registration and
// verification, signed session-token issuance, per-request token validation,
// and the role-based access policy consulted before domain handlers run.
//
// Tokens:
//   - Session tokens are self-contained HS256 JWTs carrying subject, name,
//     email, and role claims with a fixed lifetime. Validation is pure; no
//     server-side session state exists and tokens cannot be revoked before
//     expiry.
//
// Request flow:
//   - middleware/authware extracts a bearer token once per request, validates
//     it, and installs AuthClaims into the request scope. The filter never
//     rejects a request itself; denial happens in the AccessPolicy gate,
//     which maps path prefixes to allowed roles.
//
// Storage:
//   - The core talks to the account store only through the CredentialStore
//     interface (lookup by email, insert). The Bun-backed Users repository
//     implements it; everything else about persistence stays outside.
package auth
