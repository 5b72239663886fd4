// Package pulse provides the sample-level data model for control pulses.
//
// A Waveform is a time series of complex samples, one per hardware clock
// tick (real part = in-phase amplitude, imaginary part = quadrature). An
// Instruction plays a named Waveform on a Channel at a start offset, and a
// Schedule is an ordered multiset of Instructions.
//
// # Area
//
// The real-part area of a Waveform (the sum of the in-phase samples) is the
// quantity that maps to a rotation angle. Every transform in this package
// and in internal/synth is written to keep that area exactly where the caller
// asked for it.
//
// # Rescaling
//
// Rescale supports three policies. RescaleHeight multiplies every sample by
// the factor and is the production policy. RescaleWidth and
// RescaleHeightAndWidth resample onto a shorter grid and then correct the
// height so the area lands exactly on factor*area; they are experimental and
// fail with NotImplementedError unless WithExperimentalPolicies is passed.
//
// Only down-scaling (factor <= 1) is supported.
package pulse
