package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diascribe/diascribe/internal/transcribe"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available whisper model tiers",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSIZE\tDESCRIPTION")
		for _, m := range transcribe.Models {
			fmt.Fprintf(w, "%s\t%s\t%s\n", m.Name, m.Size, m.Description)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
