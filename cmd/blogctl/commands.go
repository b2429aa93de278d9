package main

import (
	"fmt"
	"text/tabwriter"
	"unicode/utf8"

	"blogicum/internal/forms"
	"blogicum/internal/models"
	"blogicum/internal/utils"

	"github.com/spf13/cobra"
)

func (c *cli) categoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}

	var (
		title       string
		slug        string
		description string
		hidden      bool
	)
	add := &cobra.Command{
		Use:     "add",
		Short:   "Create a category",
		Args:    cobra.NoArgs,
		PreRunE: c.connect,
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" || utf8.RuneCountInString(title) > 256 {
				return fmt.Errorf("--title is required and must be at most 256 characters")
			}
			if !forms.ValidSlug(slug) {
				return fmt.Errorf("--slug may only contain letters, digits, hyphens and underscores")
			}
			category := &models.Category{
				Title:       title,
				Slug:        slug,
				Description: description,
				IsPublished: !hidden,
			}
			if err := c.categories.Create(cmd.Context(), category); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created category %s (id %d)\n", category.Slug, category.ID)
			return nil
		},
	}
	add.Flags().StringVar(&title, "title", "", "category title")
	add.Flags().StringVar(&slug, "slug", "", "URL identifier")
	add.Flags().StringVar(&description, "description", "", "category description")
	add.Flags().BoolVar(&hidden, "hidden", false, "create the category unpublished")

	setPublished := func(use, short string, published bool) *cobra.Command {
		return &cobra.Command{
			Use:     use + " <slug>",
			Short:   short,
			Args:    cobra.ExactArgs(1),
			PreRunE: c.connect,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.categories.SetPublished(cmd.Context(), args[0], published); err != nil {
					return fmt.Errorf("category %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "category %s published=%t\n", args[0], published)
				return nil
			},
		}
	}

	del := &cobra.Command{
		Use:     "delete <slug>",
		Short:   "Delete a category; its posts lose the category",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.connect,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.categories.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("category %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted category %s\n", args[0])
			return nil
		},
	}

	list := &cobra.Command{
		Use:     "list",
		Short:   "List categories",
		Args:    cobra.NoArgs,
		PreRunE: c.connect,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := c.categories.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSLUG\tTITLE\tPUBLISHED")
			for _, cat := range categories {
				fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", cat.ID, cat.Slug, cat.Title, cat.IsPublished)
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(
		add,
		setPublished("publish", "Publish a category", true),
		setPublished("hide", "Hide a category and all its posts", false),
		del,
		list,
	)
	return cmd
}

func (c *cli) locationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "location",
		Short: "Manage locations",
	}

	var (
		name   string
		hidden bool
	)
	add := &cobra.Command{
		Use:     "add",
		Short:   "Create a location",
		Args:    cobra.NoArgs,
		PreRunE: c.connect,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || utf8.RuneCountInString(name) > 256 {
				return fmt.Errorf("--name is required and must be at most 256 characters")
			}
			location := &models.Location{Name: name, IsPublished: !hidden}
			if err := c.locations.Create(cmd.Context(), location); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created location %s (id %d)\n", location.Name, location.ID)
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "location name")
	add.Flags().BoolVar(&hidden, "hidden", false, "create the location unpublished")

	del := &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete a location; its posts lose the location",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.connect,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := utils.ParseID(args[0])
			if !ok {
				return fmt.Errorf("invalid location id %q", args[0])
			}
			if err := c.locations.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("location %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted location %d\n", id)
			return nil
		},
	}

	list := &cobra.Command{
		Use:     "list",
		Short:   "List locations",
		Args:    cobra.NoArgs,
		PreRunE: c.connect,
		RunE: func(cmd *cobra.Command, args []string) error {
			locations, err := c.locations.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPUBLISHED")
			for _, loc := range locations {
				fmt.Fprintf(w, "%d\t%s\t%t\n", loc.ID, loc.Name, loc.IsPublished)
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(add, del, list)
	return cmd
}

func (c *cli) postCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Moderate posts",
	}

	setPublished := func(use, short string, published bool) *cobra.Command {
		return &cobra.Command{
			Use:     use + " <id>",
			Short:   short,
			Args:    cobra.ExactArgs(1),
			PreRunE: c.connect,
			RunE: func(cmd *cobra.Command, args []string) error {
				id, ok := utils.ParseID(args[0])
				if !ok {
					return fmt.Errorf("invalid post id %q", args[0])
				}
				if err := c.posts.SetPublished(cmd.Context(), id, published); err != nil {
					return fmt.Errorf("post %d: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "post %d published=%t\n", id, published)
				return nil
			},
		}
	}

	cmd.AddCommand(
		setPublished("publish", "Publish a post", true),
		setPublished("hide", "Hide a post from the feed", false),
	)
	return cmd
}

func (c *cli) userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	del := &cobra.Command{
		Use:     "delete <username>",
		Short:   "Delete a user with all their posts and comments",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.connect,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.users.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("user %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted user %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(del)
	return cmd
}
