package report

import (
	"context"
	"fmt"
	"os"

	"github.com/leapstack-labs/leapprofile/internal/profile"
)

// Export renders rep into a uniquely named temporary file in dir (the
// system temp dir when empty), reads it back and removes it. The file
// never outlives the call.
func Export(ctx context.Context, rep *profile.Report, f Format, dir string) ([]byte, error) {
	tmp, err := os.CreateTemp(dir, "leapprofile-*."+f.Ext())
	if err != nil {
		return nil, fmt.Errorf("failed to create temp report: %w", err)
	}
	path := tmp.Name()
	defer func() { _ = os.Remove(path) }()

	if err := Render(ctx, tmp, rep, f); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("failed to render %s report: %w", f, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to write temp report: %w", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path was created above
	if err != nil {
		return nil, fmt.Errorf("failed to read temp report: %w", err)
	}
	return data, nil
}
