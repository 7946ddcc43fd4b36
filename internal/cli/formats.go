package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/woozymasta/basisview/internal/texformat"
)

func (a *App) formatsCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List the texture formats the configured GPU can show",
		Long: `Probe the software GPU configured by --gpu-extensions and print the
formats a view would offer, in selection priority order, followed by the
compressed families found.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.runFormats(all)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "list every known format with its support")

	return cmd
}

func (a *App) runFormats(all bool) error {
	dev := a.newDevice()
	caps := texformat.QueryCapabilities(dev)
	supported := caps.Supported()

	list := supported
	if all {
		list = texformat.All()
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "FORMAT\tGL FORMAT\tTARGET\tCOMPRESSED\tSUPPORTED")
	for _, d := range list {
		_, ok := texformat.Lookup(supported, d.Name)
		_, _ = fmt.Fprintf(w, "%s\t%#04x\t%s\t%s\t%s\n", d.Name, d.GLFormat, d.Target, yesNo(d.Compressed), yesNo(ok))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(a.out, "\nastc=%t etc1=%t etc2=%t dxt=%t pvrtc=%t\n",
		caps.ASTC, caps.ETC1, caps.ETC2, caps.DXT, caps.PVRTC)

	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
