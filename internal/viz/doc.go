// Package viz renders run summaries for the terminal.
//
//   - [Styles]: lipgloss panels, key/value tables, bars and sparklines built
//     from a [Theme]
//   - [Canvas]: Braille-based pixel canvas, and [PlotPaths] for drawing cell
//     trajectories on it
package viz
