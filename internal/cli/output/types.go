package output

import "time"

// TableInfo is one table in `tables` output.
type TableInfo struct {
	Schema string `json:"schema,omitempty"`
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`
}

// TablesOutput is the JSON output of `tables`.
type TablesOutput struct {
	Target string      `json:"target"`
	Tables []TableInfo `json:"tables"`
}

// SeedInfo is one loaded seed file.
type SeedInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// SeedSummary totals a seed run.
type SeedSummary struct {
	TotalSeeds int `json:"total_seeds"`
}

// SeedOutput is the JSON output of `seed`.
type SeedOutput struct {
	Dir     string      `json:"dir"`
	Seeds   []SeedInfo  `json:"seeds"`
	Summary SeedSummary `json:"summary"`
}

// VariableInfo summarizes one profiled column.
type VariableInfo struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	MissingPct float64 `json:"missing_pct"`
	Distinct   int     `json:"distinct"`
}

// ProfileOutput is the JSON output of `profile`.
type ProfileOutput struct {
	Table        string         `json:"table"`
	Rows         int            `json:"rows"`
	Columns      int            `json:"columns"`
	Alerts       []string       `json:"alerts"`
	Variables    []VariableInfo `json:"variables"`
	Report       string         `json:"report"`
	Format       string         `json:"format"`
	TableSkipped bool           `json:"table_skipped,omitempty"`
	DurationMS   int64          `json:"duration_ms"`
}

// RunInfo is one entry of `history`.
type RunInfo struct {
	ID        string    `json:"id"`
	Table     string    `json:"table"`
	Target    string    `json:"target,omitempty"`
	Status    string    `json:"status"`
	Rows      int       `json:"rows"`
	Columns   int       `json:"columns"`
	Alerts    int       `json:"alerts"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
	Error     string    `json:"error,omitempty"`
}

// Check is one `doctor` result.
type Check struct {
	Name   string `json:"name"`
	Status string `json:"status"` // pass, warn, fail, skip
	Detail string `json:"detail,omitempty"`
}

// DoctorOutput is the JSON output of `doctor`.
type DoctorOutput struct {
	ConfigFile string  `json:"config_file,omitempty"`
	Target     string  `json:"target"`
	Checks     []Check `json:"checks"`
	Healthy    bool    `json:"healthy"`
}
