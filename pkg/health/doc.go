// Package health provides HTTP handlers for health probes.
//
// LivenessHandler answers an always-OK probe for process liveness.
// ReadinessHandler runs a set of named Checks in parallel under a shared
// timeout and reports per-check status as JSON:
//
//	r.Get("/api/health", health.ReadinessHandler(health.Checks{
//	    "postgres": db.Healthcheck(pool),
//	}, health.WithLogger(log)))
//
// A failing check turns the endpoint 503 with the failing checks named in
// the body.
package health
