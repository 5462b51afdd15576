/*
Package authsdk provides a small client SDK for the accountd service.

# Overview

The package has two halves. The error types (OAuth2Error and the predefined
Err* values) implement RFC 6749 error responses and are shared with the server
side: HTTP handlers use WriteError to emit compliant error bodies, and the
client parses those same bodies back into typed errors.

The Client type wraps the public HTTP surface:

	client := authsdk.NewClient("https://accounts.example.com")

	// Rotate a refresh token for a fresh token pair
	pair, err := client.Refresh(ctx, refreshToken)

	// Inspect the authenticated account
	info, err := client.UserInfo(ctx, pair.AccessToken)

	// Revoke the session
	err = client.Logout(ctx, pair.RefreshToken)

Login itself is browser-driven (an OAuth2 redirect to the external identity
provider), so the SDK does not implement it; callers obtain their first token
pair from the callback redirect and use the SDK from there.

# Error Handling

API errors are returned as *OAuth2Error. Use errors.As to inspect the code:

	var oerr *authsdk.OAuth2Error
	if errors.As(err, &oerr) && oerr.Code == authsdk.ErrorCodeInvalidGrant {
		// refresh token expired, revoked or reused: re-authenticate
	}
*/
package authsdk
