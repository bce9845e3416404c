package cmd

import (
	"fmt"
	"runtime"

	"github.com/PolarWolf314/deskvault/internal/configs"
	"github.com/PolarWolf314/deskvault/internal/ui"
	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

// Version is set at build time:
//
//	go build -ldflags "-X github.com/PolarWolf314/deskvault/cmd.Version=1.2.3"
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()

		banner := figure.NewFigure(configs.AppName, "standard", true)
		fmt.Fprintln(out, ui.Info.Sprint(banner.String()))

		field(out, "Version", Version)
		field(out, "Serial", fmt.Sprintf("%d", configs.Serial))
		field(out, "Go", runtime.Version())
		field(out, "Platform", runtime.GOOS+"/"+runtime.GOARCH)
	},
}
