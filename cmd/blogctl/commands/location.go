package commands

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/blogicum/internal/service"
	"github.com/spf13/cobra"
)

func locationCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "location",
		Aliases: []string{"locations"},
		Short:   "Manage post locations",
	}
	cmd.AddCommand(
		locationCreateCmd(a),
		locationListCmd(a),
		locationPublishCmd(a, "publish", true),
		locationPublishCmd(a, "unpublish", false),
		locationDeleteCmd(a),
	)
	return cmd
}

func parseLocationID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid location id %q", raw)
	}
	return uint(id), nil
}

func locationCreateCmd(a *app) *cobra.Command {
	var input service.LocationInput

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a location",
		Example: `  blogctl location create --name "Planet Earth"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := a.database()
			if err != nil {
				return err
			}
			location, err := service.NewLocationService(gdb).Create(input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created location %s (id %d)\n", location.Name, location.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Name, "name", "", "Location name")
	cmd.Flags().BoolVar(&input.IsPublished, "published", true, "Offer the location to authors")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func locationListCmd(a *app) *cobra.Command {
	var publishedOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := a.database()
			if err != nil {
				return err
			}
			locations, err := service.NewLocationService(gdb).List(publishedOnly)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPUBLISHED")
			for _, location := range locations {
				fmt.Fprintf(w, "%d\t%s\t%t\n", location.ID, location.Name, location.IsPublished)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&publishedOnly, "published", false, "Only list published locations")
	return cmd
}

func locationPublishCmd(a *app, use string, published bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: fmt.Sprintf("Mark a location as %sed", use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLocationID(args[0])
			if err != nil {
				return err
			}
			gdb, err := a.database()
			if err != nil {
				return err
			}
			if err := service.NewLocationService(gdb).SetPublished(id, published); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "location %d: published=%t\n", id, published)
			return nil
		},
	}
}

func locationDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a location; its posts lose the reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLocationID(args[0])
			if err != nil {
				return err
			}
			gdb, err := a.database()
			if err != nil {
				return err
			}
			if err := service.NewLocationService(gdb).Delete(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted location %d\n", id)
			return nil
		},
	}
}
