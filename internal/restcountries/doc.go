// Package restcountries provides an HTTP client for the REST Countries v3.1 API.
//
// # Overview
//
// The Client is the boundary between atlas and the network. It translates
// HTTP calls into typed results and a small error taxonomy, and nothing else:
// no retries, no caching, one best-effort round trip per call.
//
// # Endpoints
//
//   - GET /all                FetchAll
//   - GET /name/{text}        SearchByName (404 means "no match", not an error)
//   - GET /region/{region}    FilterByRegion
//   - GET /alpha/{code}       Lookup (details view)
//   - GET /alpha?codes=a,b    LookupCodes (border country names)
//
// List endpoints request only the card fields via ?fields= to keep payloads
// small. Path segments are escaped, so user search text can contain spaces
// or slashes.
//
// # Errors
//
//   - *NetworkError: transport failure, undecodable body, or non-2xx status
//     other than the not-found cases above. StatusCode is zero when no
//     response was received.
//   - *NotFoundError: Lookup found no country for the code (404, 400 or an
//     empty array).
//
// Both are intended for errors.As.
//
// # Concurrency
//
// A Client is safe for concurrent use. Lookup collapses concurrent requests
// for the same code with singleflight; the details view and a border
// resolution racing for the same country share one request.
package restcountries
