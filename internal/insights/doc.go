// Package insights derives dashboard, financial and progress figures from
// entity collections.
//
// Every function here is pure: inputs are plain slices (usually taken from a
// store snapshot), outputs are fresh values, and no input is mutated. The
// functions are total over their domain. Missing amounts count as zero,
// invalid dates are treated as not comparable and land in the least alarming
// bucket, and empty collections produce zero values.
package insights
