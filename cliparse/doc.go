// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse parses configuration from CLI flags with environment
variable fallback.

Flags win over environment variables. DATABASE_URL and CREDENTIAL_SALT
are required; PORT, DATABASE_TYPE, and ADMIN_EMAIL have defaults.

	-p            PORT            server port (default 4017)
	-d            DATABASE_URL    database connection string
	-t            DATABASE_TYPE   sqlite or postgres (default sqlite)
	-admin-email  ADMIN_EMAIL     admin account email
	-credential-salt CREDENTIAL_SALT secret for credential proofing
*/
package cliparse
