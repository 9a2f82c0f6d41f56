// Package auth issues and verifies HS256 bearer tokens and hashes passwords
// with bcrypt. Tokens are stateless: there is no revocation list.
package auth
