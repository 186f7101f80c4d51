// Package snapshot is the caching and sampling engine behind every metric
// category.
//
// A Source produces the current record for one category. Two wrappers sit on
// top of it:
//
//   - Handle caches the first outcome of a Source and shares it between any
//     number of concurrent readers. Only one Source call is ever in flight;
//     callers that arrive while it runs wait for the same outcome. Failures
//     are cached too and stay cached until Refresh.
//
//   - Sampler captures two timestamped snapshots separated by a requested
//     duration and reduces them to a Delta. The denominator of every rate is
//     the measured gap between the two captures, not the requested duration.
//
// Counter fields use a clamp-to-zero policy: a counter observed to decrease
// between captures has reset or wrapped, and its delta is reported as 0.
package snapshot
