package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/blogicum/internal/service"
	"github.com/spf13/cobra"
)

func pageCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "page",
		Aliases: []string{"pages"},
		Short:   "Manage static pages such as about and rules",
	}
	cmd.AddCommand(pageSetCmd(a), pageListCmd(a))
	return cmd
}

func pageSetCmd(a *app) *cobra.Command {
	var (
		input service.PageInput
		file  string
	)

	cmd := &cobra.Command{
		Use:   "set <slug>",
		Short: "Create or replace a page; content is markdown",
		Example: `  blogctl page set about --title "О проекте" --file about.md
  blogctl page set rules --title "Правила" --content "Будьте вежливы."`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				raw, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read %s: %w", file, err)
				}
				input.Content = string(raw)
			}

			gdb, err := a.database()
			if err != nil {
				return err
			}
			page, err := service.NewPageService(gdb).Save(args[0], input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved page %s (/pages/%s/)\n", page.Slug, page.Slug)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Title, "title", "", "Page title")
	cmd.Flags().StringVar(&input.Content, "content", "", "Markdown content")
	cmd.Flags().StringVar(&file, "file", "", "Read markdown content from a file")
	cmd.MarkFlagsMutuallyExclusive("content", "file")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func pageListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pages, including built-in defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := a.database()
			if err != nil {
				return err
			}
			pages, err := service.NewPageService(gdb).List()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SLUG\tTITLE\tSTORED")
			for _, page := range pages {
				fmt.Fprintf(w, "%s\t%s\t%t\n", page.Slug, page.Title, page.ID != 0)
			}
			return w.Flush()
		},
	}
}
