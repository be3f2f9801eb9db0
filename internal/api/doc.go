// Package api implements a typed HTTP client for the BioFlow analysis API.
//
// Authenticated requests carry the session's bearer token via an
// [oauth2.Transport] with a static token source. Authentication endpoints go
// through a tiered negotiator (JSON POST, query POST, query GET) that
// tolerates backend variants and blocked CORS preflights.
package api
