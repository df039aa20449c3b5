// Package site serves the localized blog: home, post and pricing pages, the
// translation bundle and the daily quota endpoints.
//
// Pages live under a locale prefix (/en, /es, ...). Unprefixed page requests
// are redirected by the locale.RedirectPolicy middleware before they reach
// this package. Page responses are JSON view models for a client renderer.
//
// The viewer is resolved per request by forwarding the browser's cookies to
// the account endpoints through a session.Client. Anonymous quota counters
// are kept by a usage.Tracker keyed on a visitor cookie.
package site
