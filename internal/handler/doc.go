// Package handler implements the HTTP API for hostlookup.
//
// Routes (chi):
//
//	GET  /healthz
//	GET  /api/v1/sources
//	GET  /api/v1/sources/{source}/list
//	GET  /api/v1/sources/{source}/input        204 when srchparam is enough
//	GET  /api/v1/sources/{source}/search       ?srchparam=&format=
//	POST /api/v1/sources/{source}/search       {"srchparam": ...}
//	GET  /api/v1/search                        every source, merged
//	GET  /api/v1/saved-searches                and POST
//	GET  /api/v1/saved-searches/{id}           and PUT, DELETE
//	POST /api/v1/saved-searches/{id}/run
//	GET  /api/v1/events                        server-sent events
//
// Search results are rendered by the codec named in format (json, yaml or
// ansible-inventory). Errors are returned as JSON with {error, details}:
// unknown sources and saved searches map to 404, bad input to 400, name
// collisions to 409 and backend failures to 502.
package handler
