package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/blogicum/internal/service"
	"github.com/spf13/cobra"
)

func categoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories"},
		Short:   "Manage post categories",
	}
	cmd.AddCommand(
		categoryCreateCmd(a),
		categoryListCmd(a),
		categoryPublishCmd(a, "publish", true),
		categoryPublishCmd(a, "unpublish", false),
		categoryDeleteCmd(a),
	)
	return cmd
}

func categoryCreateCmd(a *app) *cobra.Command {
	var input service.CategoryInput

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a category",
		Example: `  blogctl category create --title Travel --slug travel --published=false`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := a.database()
			if err != nil {
				return err
			}
			category, err := service.NewCategoryService(gdb).Create(input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created category %s (id %d)\n", category.Slug, category.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Title, "title", "", "Category title")
	cmd.Flags().StringVar(&input.Slug, "slug", "", "URL identifier: latin letters, digits, hyphen and underscore")
	cmd.Flags().StringVar(&input.Description, "description", "", "Description shown on the category page")
	cmd.Flags().BoolVar(&input.IsPublished, "published", true, "Show the category to readers")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("slug")
	return cmd
}

func categoryListCmd(a *app) *cobra.Command {
	var publishedOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := a.database()
			if err != nil {
				return err
			}
			categories, err := service.NewCategoryService(gdb).List(publishedOnly)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSLUG\tTITLE\tPUBLISHED")
			for _, category := range categories {
				fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", category.ID, category.Slug, category.Title, category.IsPublished)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&publishedOnly, "published", false, "Only list published categories")
	return cmd
}

func categoryPublishCmd(a *app, use string, published bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <slug>",
		Short: fmt.Sprintf("Mark a category as %sed", use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := a.database()
			if err != nil {
				return err
			}
			if err := service.NewCategoryService(gdb).SetPublished(args[0], published); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "category %s: published=%t\n", args[0], published)
			return nil
		},
	}
}

func categoryDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <slug>",
		Short: "Delete a category; its posts become uncategorised",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := a.database()
			if err != nil {
				return err
			}
			if err := service.NewCategoryService(gdb).Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted category %s\n", args[0])
			return nil
		},
	}
}
