// Package pipeline runs the collector as a sequence of steps over a
// model.Run.
//
// The collector enumerates the candidate pages of a category, fetches a
// record for each candidate, sorts the records by publication year and
// persists them as a JSON snapshot. Each stage is a Step; the Pipeline
// executes them in order, logs each one and stops at the first error, so a
// failed run never leaves a partial snapshot behind.
package pipeline
