// Package landscape provides geometrical potential models for the ICM
// EPI/PE lineage decision (Raju & Siggia, 2024).
//
// Each model implements [dynamo.Model]:
//
//   - [DualCusp]: two cusps joined along the specification axis
//   - [HeteroclinicFlip]: flip of a heteroclinic connection driven by
//     population feedback
//
// Gradient returns the flow (descent direction) that cells follow; it is
// the negated derivative of each model's flow potential, [DualCusp.Flow]
// or [HeteroclinicFlip.Flow]. Potential is the landscape height used for
// the z coordinate of a cell's location.
//
// Models are immutable once constructed and safe for concurrent use.
package landscape
