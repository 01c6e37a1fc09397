// Package viz renders potentials and profiles for the terminal.
//
//   - [RenderProfile]: asciigraph chart of one profile column
//   - [RenderEvaluation]: styled report of a point evaluation
//   - [SparklineChart]: compact one-line chart used by the explorer
//   - Theme selection with 3 built-in color schemes
package viz
