/*
Package metrics exposes the runtime's Prometheus instrumentation: actor
lifecycle gauges, transition/handler-panic/no-match counters, scheduler
fork/interrupt/invoke-outcome counters, child registry counters, and
persistence-boundary histograms and decode-error counts.

Handler returns the promhttp handler for mounting on an HTTP mux. Timer
is the same start-time-and-observe helper used throughout this module
for histogram instrumentation.
*/
package metrics
