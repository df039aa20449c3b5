// Package backend serves the account endpoints the blog talks to: session
// lookup, login and logout, subscription checkout and cancellation, and
// server-side daily usage counters.
//
// Accounts and sessions live in memory. Passwords are stored as bcrypt
// hashes and sessions are identified by a random token in an HttpOnly
// cookie. Mount the handler returned by Server.Routes under /api:
//
//	r.Mount("/api", srv.Routes())
//
// Responses are JSON. Failures carry {"error": "..."} with a non-2xx status.
package backend
