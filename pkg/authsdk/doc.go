/*
Package authsdk provides a client SDK for the login service.

# Overview

The service exposes three token endpoints and a health probe:

	POST /auth/login    {user_name, password} -> {access_token, refresh_token}
	POST /auth/refresh  {refresh_token}       -> {access_token}
	POST /auth/logout   {refresh_token}       -> {message}
	GET  /health                              -> {status}

Access tokens are HS256 JWTs that live for a short time (15 minutes by
default). Refresh tokens are opaque and live longer (7 days by default). A
refresh does not rotate the refresh token.

# SDKClient vs Session

SDKClient maps one method to one endpoint:

	client := authsdk.NewSDKClient("http://localhost:8000")

	pair, err := client.Login(ctx, "alice", "secret123")
	access, err := client.Refresh(ctx, pair.RefreshToken)
	err = client.Logout(ctx, pair.RefreshToken)

Session holds a token pair and keeps the access token fresh:

	session, err := client.Authenticate(ctx, "alice", "secret123")
	defer session.Close(ctx)

	token, err := session.AccessToken(ctx) // refreshed shortly before exp

# Errors

Non-2xx responses are returned as *APIError. Failed logins and refreshes
match ErrInvalidUser:

	if errors.Is(err, authsdk.ErrInvalidUser) {
		// wrong credentials, or the refresh token is expired/revoked
	}
*/
package authsdk
