// Command blogctl administers categories, locations, posts and users in the
// blog database.
package main

import (
	"fmt"
	"log"
	"os"

	"blogicum/internal/app"
	"blogicum/internal/config"
	"blogicum/internal/db"
	"blogicum/internal/repository"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// cli carries the repositories shared by every subcommand. The database is
// opened lazily so that --help works without one.
type cli struct {
	open func() (*gorm.DB, error)
	conn *gorm.DB

	categories repository.CategoryRepository
	locations  repository.LocationRepository
	posts      repository.PostRepository
	users      repository.UserRepository
}

func (c *cli) connect(cmd *cobra.Command, args []string) error {
	if c.conn != nil {
		return nil
	}
	conn, err := c.open()
	if err != nil {
		return err
	}
	c.conn = conn
	c.categories = repository.NewCategoryRepository(conn)
	c.locations = repository.NewLocationRepository(conn)
	c.posts = repository.NewPostRepository(conn)
	c.users = repository.NewUserRepository(conn)
	return nil
}

func (c *cli) close() {
	if c.conn != nil {
		db.Close(c.conn)
		c.conn = nil
	}
}

func newRootCmd(open func() (*gorm.DB, error)) (*cobra.Command, *cli) {
	c := &cli{open: open}
	root := &cobra.Command{
		Use:           "blogctl",
		Short:         "Administer the blog database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		c.migrateCmd(),
		c.categoryCmd(),
		c.locationCmd(),
		c.postCmd(),
		c.userCmd(),
	)
	return root, c
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "migrate",
		Short:   "Create or update the database schema",
		Args:    cobra.NoArgs,
		PreRunE: c.connect,
		RunE: func(cmd *cobra.Command, args []string) error {
			// connect already migrated.
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	root, c := newRootCmd(func() (*gorm.DB, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		return app.OpenDB(cfg, zap.NewNop())
	})
	defer c.close()

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		c.close()
		os.Exit(1)
	}
}
