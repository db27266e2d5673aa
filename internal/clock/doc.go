// Package clock implements the timing-stability computations applied to
// satellite clock phase series: robust outlier filtering, polynomial trend
// removal, frequency offset estimation and the overlapping Allan deviation.
//
// All functions are pure; inputs are never modified.
package clock
