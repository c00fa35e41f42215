package commands

import (
	"runtime"

	"github.com/spf13/cobra"
)

// BuildInfo identifies a doric build.
type BuildInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the doric version together with the commit, build date and Go toolchain it was built from.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info.GoVersion = runtime.Version()
			info.Platform = runtime.GOOS + "/" + runtime.GOARCH

			r := NewCommandContextWithoutEngine(cmd).Renderer
			if handled, err := r.Structured(info); handled {
				return err
			}
			r.Printf("doric v%s\n", info.Version)
			r.Muted("commit " + info.Commit + ", built " + info.BuildDate)
			r.Muted(info.GoVersion + " " + info.Platform)
			return nil
		},
	}
}
