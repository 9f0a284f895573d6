package commands

import (
	"fmt"

	"github.com/blogicum/internal/seed"
	"github.com/spf13/cobra"
)

func seedCmd(a *app) *cobra.Command {
	opts := seed.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with demo data",
		Long: `Generate demo users, categories, locations, posts and comments.

Every generated account uses the same password (--password).`,
		Example: `  blogctl seed --users 10 --posts-per-user 3 --seed 42`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := a.database()
			if err != nil {
				return err
			}
			result, err := seed.NewFactory(gdb, opts).Run()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %s\n", result)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Users, "users", opts.Users, "Number of accounts")
	cmd.Flags().IntVar(&opts.Categories, "categories", opts.Categories, "Number of categories")
	cmd.Flags().IntVar(&opts.Locations, "locations", opts.Locations, "Number of locations")
	cmd.Flags().IntVar(&opts.PostsPerUser, "posts-per-user", opts.PostsPerUser, "Posts written by each account")
	cmd.Flags().IntVar(&opts.CommentsPerPost, "comments-per-post", opts.CommentsPerPost, "Comments left on each post")
	cmd.Flags().StringVar(&opts.Password, "password", opts.Password, "Password of the generated accounts")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "Random seed, 0 picks one")
	return cmd
}
