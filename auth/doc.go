// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the credential collaborator and session tokens.

# Credential Proofs

Member secrets are proofed with HMAC-SHA256 keyed on a server salt:

	creds := auth.Credentials{Salt: cfg.CredentialSalt}
	proof := creds.Prove(password)
	ok := creds.Verify(proof, password)

The registry stores only the proof; verification is constant-time.

# Session Tokens

Session tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateSessionToken()

Tokens are URL-safe base64 encoded without padding and sent by clients
in the X-Session-Token header.
*/
package auth
