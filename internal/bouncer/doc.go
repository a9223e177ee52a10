// Package bouncer implements a client for the OONI bouncer.
//
// Given a nettest name and version and the test helpers we would like to
// use, the bouncer tells us which collectors and which test helpers are
// available. Each returned endpoint may carry a front, in which case the
// caller should use domain fronting to reach it.
//
// The [*Client] is the entry point. It builds the request body, performs
// a single POST using the [model.HTTPExchanger] it was constructed with,
// and parses the response into a [*Response]. There are no partial
// results: either [Response.Good] is true and the collectors and helpers
// are fully populated, or it is false and the logs explain why.
//
// The logs are a transcript containing the request body, the exchanger's
// own diagnostics, the response body, and any error. They are append
// only and may contain bytes that are not valid UTF-8.
package bouncer
