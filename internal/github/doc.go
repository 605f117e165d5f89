// Package github is the sole point of contact with the GitHub REST API.
//
// It layers three concerns on top of the go-github client:
//
//   - Retrying: every call goes through a bounded retry loop with
//     exponential backoff (3 attempts, 5s base delay). Exhaustion yields a
//     terminal *APIError for that call only; calls never share retry state.
//
//   - Rate limiting: a proactive token bucket smooths request rates, and
//     Monitor performs reactive checks against the authoritative
//     /rate_limit endpoint, pausing until the reset time when a category
//     has at most one request left.
//
//   - Search: Searcher paginates the repository search sequentially,
//     throttling against the search quota before every page.
//
// Authentication uses a static bearer token; every request carries a fixed
// client-identifying User-Agent.
package github
