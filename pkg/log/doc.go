/*
Package log provides structured logging for statemesh using zerolog.

Init configures the global Logger (level, JSON vs console, output
writer). WithComponent, WithMachine, and WithChildID derive child
loggers carrying a component/machine/child_id field. cmd/statemeshctl
calls Init; the runtime packages (pkg/actor, pkg/scheduler, pkg/events)
do not import this package and log through the zerolog.Logger passed
to them instead.
*/
package log
