package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

type VersionInfo struct {
	Version string
	Commit  string
}

func (vi VersionInfo) String() string {
	return fmt.Sprintf("%s.%s", vi.Version, vi.Commit)
}

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "samanvaya %s (%s %s/%s)\n",
				cmd.Root().Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
