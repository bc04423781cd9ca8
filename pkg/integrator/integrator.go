// Package integrator implements the light transport algorithms that turn a
// scene and a camera ray into radiance: unidirectional path tracing with
// next-event estimation. The bidirectional integrator type is a stub whose
// RayColor panics.
package integrator

// Integrator implementations satisfy core.Integrator; see
// pkg/core/interfaces.go for the contract they implement.
