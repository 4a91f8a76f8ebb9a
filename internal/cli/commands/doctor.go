package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/leapprofile/internal/cli/config"
	"github.com/leapstack-labs/leapprofile/internal/cli/output"
	"github.com/leapstack-labs/leapprofile/internal/seed"
	"github.com/spf13/cobra"
)

// Check statuses.
const (
	checkPass = "pass"
	checkWarn = "warn"
	checkFail = "fail"
	checkSkip = "skip"
)

// ErrUnhealthy is returned by doctor when a check fails.
var ErrUnhealthy = errors.New("one or more checks failed")

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and connectivity",
		Long: `Run health checks against the current configuration:

- Config file discovery
- Keyring access for keyring:<key> passwords
- Target connectivity and table listing
- Run history database
- Metrics backend credentials
- Seeds directory

Exits non-zero when any check fails.`,
		Example: `  leapprofile doctor
  leapprofile doctor --target warehouse --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd)
		},
	}
}

func runDoctor(cmd *cobra.Command) error {
	cc := NewCommandContext(cmd)
	defer func() { _ = cc.Close() }()

	cfg := cc.Cfg
	out := &output.DoctorOutput{
		ConfigFile: config.GetConfigFileUsed(),
		Target:     cfg.TargetLabel(),
	}
	add := func(name, status, detail string) {
		out.Checks = append(out.Checks, output.Check{Name: name, Status: status, Detail: detail})
	}

	if out.ConfigFile != "" {
		add("config", checkPass, out.ConfigFile)
	} else {
		add("config", checkWarn, "no leapprofile.yaml found, using defaults")
	}

	if cfg.NeedsSecrets() {
		status, detail := checkKeyring(cfg.Target.Password)
		add("keyring", status, detail)
	} else {
		add("keyring", checkSkip, "no keyring references")
	}

	if target, err := cc.OpenTarget(cmd.Context()); err != nil {
		add("target", checkFail, err.Error())
	} else if refs, err := target.ListTables(cmd.Context()); err != nil {
		add("target", checkFail, err.Error())
	} else {
		add("target", checkPass, fmt.Sprintf("%s, %d tables", cfg.Target.Type, len(refs)))
	}

	switch store, err := cc.OpenHistory(); {
	case err != nil:
		add("history", checkFail, err.Error())
	case store == nil:
		add("history", checkSkip, "disabled")
	default:
		v, err := store.Version()
		if err != nil {
			add("history", checkFail, err.Error())
		} else {
			add("history", checkPass, fmt.Sprintf("%s (schema v%d)", cfg.History.Path, v))
		}
	}

	switch cfg.Metrics.Backend {
	case config.MetricsDatadog:
		if os.Getenv("DD_API_KEY") == "" {
			add("metrics", checkFail, "DD_API_KEY is not set")
		} else {
			add("metrics", checkPass, "datadog")
		}
	default:
		add("metrics", checkSkip, "disabled")
	}

	seedStatus, seedDetail := checkSeeds(cfg.UI.SeedsDir)
	add("seeds", seedStatus, seedDetail)

	out.Healthy = true
	for _, c := range out.Checks {
		if c.Status == checkFail {
			out.Healthy = false
		}
	}

	if err := renderDoctor(cc.Renderer, out); err != nil {
		return err
	}
	if !out.Healthy {
		return ErrUnhealthy
	}
	return nil
}

func checkKeyring(ref string) (string, string) {
	mgr, err := openSecrets()
	if err != nil {
		return checkFail, err.Error()
	}
	if _, err := mgr.Resolve(ref); err != nil {
		return checkFail, err.Error()
	}
	return checkPass, ref
}

func checkSeeds(dir string) (string, string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return checkSkip, dir + " does not exist"
		}
		return checkWarn, err.Error()
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && seed.IsSeedFile(e.Name()) {
			n++
		}
	}
	return checkPass, fmt.Sprintf("%s, %d CSV files", dir, n)
}

func renderDoctor(r *output.Renderer, out *output.DoctorOutput) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(out)
	}

	title := cases.Title(language.English)
	r.Header(1, "Doctor")
	r.KeyValue("Target", out.Target)
	r.Println("")
	for _, c := range out.Checks {
		r.StatusLine(title.String(c.Name), c.Status, c.Detail)
	}
	r.Println("")

	if out.Healthy {
		r.Success("All checks passed")
		return nil
	}
	var failed []string
	for _, c := range out.Checks {
		if c.Status == checkFail {
			failed = append(failed, c.Name)
		}
	}
	r.Error("Failed: " + strings.Join(failed, ", "))
	return nil
}
