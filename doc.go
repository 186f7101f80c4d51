// Package hostmetrics collects performance and health data from the host it
// runs on.
//
// Each category of host data (CPU topology, memory, DIMMs, interrupts, IRQ
// affinity, network devices, host identity) is read by a source. Static
// categories are computed once behind a single-flight cache and shared by
// every caller until refreshed. Rate categories (network throughput,
// interrupt rates) are sampled: two timestamped captures separated by a
// requested window, with rates computed over the measured elapsed time.
// Counters that go backwards between captures yield a rate of zero.
//
// Commands:
//   - cmd/agent: collects every category on a schedule, keeps history in
//     memory, PostgreSQL or SQLite, forwards report events to a file and a
//     remote collector, and serves the query API.
//   - cmd/server: accepts gzip compressed, HMAC signed metric batches from
//     agents and serves the same query API.
//   - cmd/linter: a go/analysis checker that keeps waits on the injected
//     clock and exits in main.
//
// Both commands read configuration from defaults, a YAML file, a dotenv
// file, the environment and command-line flags.
package hostmetrics
