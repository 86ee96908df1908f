package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/atinyakov/subwaymap/internal/models"
)

// NewLinesCommand creates the lines command.
func NewLinesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lines",
		Short: "List all lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			if err := a.resume(ctx, opts.Token); err != nil {
				return err
			}
			if _, err := a.client.FetchLines(ctx).Await(ctx); err != nil {
				return commandError(a.client.Lines.State().Status.Message, err)
			}
			printLines(cmd.OutOrStdout(), a.client.Lines.State().Items)
			return nil
		},
	}
}

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	models.CreateLineRequest
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a line",
		Long: `Create a line between two existing stations.

Example:
  subway add --name "Line 2" --up 1 --down 2 --distance 10 --color green`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts.RootOptions)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			if err := a.resume(ctx, opts.Token); err != nil {
				return err
			}
			line, err := a.client.CreateLine(ctx, opts.CreateLineRequest).Await(ctx)
			if err != nil {
				return commandError(a.client.Lines.State().Status.Message, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: #%d %s\n", a.client.Lines.State().Status.Message, line.ID, line.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "line name")
	cmd.Flags().Int64Var(&opts.UpStationID, "up", 0, "up-bound terminal station id")
	cmd.Flags().Int64Var(&opts.DownStationID, "down", 0, "down-bound terminal station id")
	cmd.Flags().IntVar(&opts.Distance, "distance", 0, "distance between the terminals")
	cmd.Flags().StringVar(&opts.Color, "color", "", "display color")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid line id %q", args[0])
			}

			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			if err := a.resume(ctx, opts.Token); err != nil {
				return err
			}
			if _, err := a.client.RemoveLine(ctx, id).Await(ctx); err != nil {
				return commandError(a.client.Lines.State().Status.Message, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: #%d\n", a.client.Lines.State().Status.Message, id)
			return nil
		},
	}
}

func printLines(w io.Writer, lines []models.Line) {
	if len(lines) == 0 {
		fmt.Fprintln(w, "no lines")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCOLOR\tUP\tDOWN\tDISTANCE")
	for _, l := range lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\n",
			l.ID, l.Name, l.Color, l.StartStation.Name, l.EndStation.Name, l.Distance)
	}
	_ = tw.Flush()
}
