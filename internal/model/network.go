package models

// NetDevStat holds the cumulative counters of one interface from
// /proc/net/dev.
type NetDevStat struct {
	Interface    string `json:"interface"`
	RecvBytes    uint64 `json:"recv_bytes"`
	RecvPackets  uint64 `json:"recv_packets"`
	RecvErrs     uint64 `json:"recv_errs"`
	RecvDrop     uint64 `json:"recv_drop"`
	RecvFifo     uint64 `json:"recv_fifo"`
	RecvFrame    uint64 `json:"recv_frame"`
	RecvCompress uint64 `json:"recv_compressed"`
	RecvMcast    uint64 `json:"recv_multicast"`
	SentBytes    uint64 `json:"sent_bytes"`
	SentPackets  uint64 `json:"sent_packets"`
	SentErrs     uint64 `json:"sent_errs"`
	SentDrop     uint64 `json:"sent_drop"`
	SentFifo     uint64 `json:"sent_fifo"`
	SentColls    uint64 `json:"sent_colls"`
	SentCarrier  uint64 `json:"sent_carrier"`
	SentCompress uint64 `json:"sent_compressed"`
}

// NetworkRate is the throughput of one interface over a sampling window.
// The *Total fields are the absolute counters at the end of the window.
type NetworkRate struct {
	Interface         string  `json:"interface"`
	RecvBytesPerSec   float64 `json:"recv_bytes_per_sec"`
	RecvPacketsPerSec float64 `json:"recv_packets_per_sec"`
	RecvErrsPerSec    float64 `json:"recv_errs_per_sec"`
	RecvDropPerSec    float64 `json:"recv_drop_per_sec"`
	SentBytesPerSec   float64 `json:"sent_bytes_per_sec"`
	SentPacketsPerSec float64 `json:"sent_packets_per_sec"`
	SentErrsPerSec    float64 `json:"sent_errs_per_sec"`
	SentDropPerSec    float64 `json:"sent_drop_per_sec"`
	RecvBytesTotal    uint64  `json:"recv_bytes_total"`
	SentBytesTotal    uint64  `json:"sent_bytes_total"`
}
