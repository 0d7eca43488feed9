// Package analysis provides post-run tools for fate landscapes.
//
//   - [GeneratePhasePortrait]: every cell of every snapshot in the fate plane
//   - [CellTrajectory]: one cell's per-tick path
//   - [Crossings]: upward crossings of an x threshold per cell
//   - [BifurcationDiagram]: parameter sweep over final fates
//   - [NumericalDescent] and [GradientResidual]: compare a model's flow
//     against finite differences of its potential
//
// # Landscape Check
//
// A residual near zero means the model's flow descends its own potential:
//
//	r := analysis.GradientResidual(m, dynamo.Fate{X: 0.5, Y: 0.5}, nil)
//	if r > 1e-6 {
//	    // flow is not the gradient of Potential
//	}
package analysis
