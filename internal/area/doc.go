// Package area measures how much of the [-1,1]^n search domain a set of
// sub-boxes covers, relative to the original volume.
//
// Responsibilities: per-box area estimation (linear and log form),
// stable log-sum-exp aggregation over a subdivision frontier, and the
// normalised progress metric derived from an aggregated log area.
// Key types: Box, Leaf.
//
// Areas shrink multiplicatively with every subdivision level, so the
// linear form underflows to zero long before a deep search finishes.
// Everything past a single box is therefore computed in log space.
// All functions are pure and safe for concurrent use.
package area
