// Package sim drives the fixed-step simulation loop.
//
// A [Driver] moves through three phases:
//
//	Uninitialized -> Running -> Terminated
//
// Setup allocates the particle arena and snapshot buffer, runs the random
// fill, and computes total mass; any failure there is fatal and nothing
// else can fail afterward. Running repeats snapshot, force update, and the
// center-of-mass diagnostic for the configured step count: steps are
// strictly sequential, only the per-particle force loop inside a step is
// parallel. There is no early termination; the loop always runs the full
// configured count.
//
// The driver never prints. Observers receive per-step values and own all
// formatting.
package sim
