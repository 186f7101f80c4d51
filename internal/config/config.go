package config

import (
	"fmt"
	"time"
)

// AgentConfig configures cmd/agent.
type AgentConfig struct {
	Address      string
	PollInterval time.Duration
	SampleWindow time.Duration
	RateLimit    int
	ReportURL    string
	Key          string
	ReportFile   string
	Storage      string
	DatabaseDSN  string
	ProcRoot     string
	SysRoot      string
	LogLevel     string
	HistoryLimit int
}

// DefaultAgent returns the built-in agent settings.
func DefaultAgent() *AgentConfig {
	return &AgentConfig{
		Address:      "localhost:8081",
		PollInterval: 10 * time.Second,
		SampleWindow: time.Second,
		RateLimit:    5,
		Storage:      StorageMemory,
		ProcRoot:     "/proc",
		SysRoot:      "/sys",
		LogLevel:     "info",
		HistoryLimit: 1000,
	}
}

func (c *AgentConfig) options() []option {
	return []option{
		{key: "address", short: "a", usage: "query API listen address", target: &c.Address},
		{key: "poll_interval", short: "p", usage: "time between collection passes", target: &c.PollInterval},
		{key: "sample_window", short: "w", usage: "window over which rates are sampled", target: &c.SampleWindow},
		{key: "rate_limit", short: "l", usage: "number of report workers", target: &c.RateLimit},
		{key: "report_url", short: "r", usage: "URL that receives metric batches", target: &c.ReportURL},
		{key: "key", short: "k", usage: "HMAC-SHA256 key for report batches", target: &c.Key},
		{key: "report_file", short: "f", usage: "file that receives report events as JSON lines", target: &c.ReportFile},
		{key: "storage", short: "s", usage: "history storage: memory, postgres or sqlite", target: &c.Storage},
		{key: "database_dsn", short: "d", usage: "database DSN for postgres or sqlite storage", target: &c.DatabaseDSN},
		{key: "proc_root", usage: "procfs mount point", target: &c.ProcRoot},
		{key: "sys_root", usage: "sysfs mount point", target: &c.SysRoot},
		{key: "log_level", usage: "log level", target: &c.LogLevel},
		{key: "history_limit", usage: "samples kept per series by memory storage", target: &c.HistoryLimit},
	}
}

// LoadAgent builds the agent configuration from args (without the program
// name) and the environment.
func LoadAgent(args []string) (*AgentConfig, error) {
	c := DefaultAgent()
	if err := load("agent", args, c.options()); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *AgentConfig) validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	if c.SampleWindow <= 0 {
		return fmt.Errorf("sample_window must be positive, got %s", c.SampleWindow)
	}
	if c.RateLimit < 1 {
		return fmt.Errorf("rate_limit must be at least 1, got %d", c.RateLimit)
	}
	return validateStorage(c.Storage, c.DatabaseDSN, c.HistoryLimit)
}

// ServerConfig configures cmd/server.
type ServerConfig struct {
	Address      string
	Storage      string
	DatabaseDSN  string
	Key          string
	LogLevel     string
	ProcRoot     string
	SysRoot      string
	HistoryLimit int

	// HistoryFile, when set with memory storage, is restored at startup
	// and saved every StoreInterval and at shutdown. A zero StoreInterval
	// saves only at shutdown.
	HistoryFile   string
	StoreInterval time.Duration
}

// DefaultServer returns the built-in server settings.
func DefaultServer() *ServerConfig {
	return &ServerConfig{
		Address:      "localhost:8080",
		Storage:      StorageMemory,
		LogLevel:     "info",
		ProcRoot:     "/proc",
		SysRoot:      "/sys",
		HistoryLimit: 1000,
	}
}

func (c *ServerConfig) options() []option {
	return []option{
		{key: "address", short: "a", usage: "listen address", target: &c.Address},
		{key: "storage", short: "s", usage: "history storage: memory, postgres or sqlite", target: &c.Storage},
		{key: "database_dsn", short: "d", usage: "database DSN for postgres or sqlite storage", target: &c.DatabaseDSN},
		{key: "key", short: "k", usage: "HMAC-SHA256 key checked on /updates", target: &c.Key},
		{key: "log_level", usage: "log level", target: &c.LogLevel},
		{key: "proc_root", usage: "procfs mount point", target: &c.ProcRoot},
		{key: "sys_root", usage: "sysfs mount point", target: &c.SysRoot},
		{key: "history_limit", usage: "samples kept per series by memory storage", target: &c.HistoryLimit},
		{key: "history_file", short: "f", usage: "file that persists memory history across restarts", target: &c.HistoryFile},
		{key: "store_interval", short: "i", usage: "time between history file saves, 0 saves only at shutdown", target: &c.StoreInterval},
	}
}

// LoadServer builds the server configuration from args and the
// environment.
func LoadServer(args []string) (*ServerConfig, error) {
	c := DefaultServer()
	if err := load("server", args, c.options()); err != nil {
		return nil, err
	}
	if err := validateStorage(c.Storage, c.DatabaseDSN, c.HistoryLimit); err != nil {
		return nil, err
	}
	if c.StoreInterval < 0 {
		return nil, fmt.Errorf("store_interval must not be negative, got %s", c.StoreInterval)
	}
	return c, nil
}

func validateStorage(storage, dsn string, historyLimit int) error {
	switch storage {
	case StorageMemory:
		if historyLimit < 1 {
			return fmt.Errorf("history_limit must be at least 1, got %d", historyLimit)
		}
	case StoragePostgres, StorageSQLite:
		if dsn == "" {
			return fmt.Errorf("storage %s requires database_dsn", storage)
		}
	default:
		return fmt.Errorf("unknown storage %q", storage)
	}
	return nil
}
