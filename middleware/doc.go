// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP plumbing shared by all handlers:
request logging, JSON encode/decode helpers, CORS, and client IP
extraction.

RetryableResponse marks an error body with "retryable": true; it is
used for transient conflicts (a lost write race) where the client
should silently retry, as opposed to permanent rejections.
*/
package middleware
