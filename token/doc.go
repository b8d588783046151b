// Package token mints and verifies the signed access/refresh token pair.
// The two tokens are signed with distinct secrets so a resource server can
// verify access tokens without ever being able to forge refresh tokens.
package token
