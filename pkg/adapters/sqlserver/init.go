package sqlserver

import (
	"log/slog"

	"github.com/leapstack-labs/leapprofile/pkg/adapter"
)

func init() {
	adapter.Register("sqlserver", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
