// Package quantile computes interpolated quantiles of sorted samples under the
// thirteen sample quantile definitions used by statistical packages
// (Hyndman & Fan's nine definitions plus lower, higher, midpoint and nearest).
//
// Every method is described by the same nine-field Config. A Config maps a
// quantile q and a sample size n to a blend weight gamma and an index j
// (Config.Position); Interpolate then blends sorted[j] and sorted[j+1]. A
// Kernel resolves the Config and the working precision once and serves any
// number of requests with them.
//
// The package never sorts and never mutates its inputs. Samples must already
// be sorted in ascending order; an unsorted sample yields a well-defined but
// meaningless value.
package quantile

// References:
//
// Hyndman, Rob J.; Fan, Yanan (November 1996).
// "Sample Quantiles in Statistical Packages".
// American Statistician. 50 (4): 361-365.
