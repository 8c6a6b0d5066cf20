// cmd/groupctl/main.go
// Administrative tool to create, list and delete post groups
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"Yatube/internal/config"
	"Yatube/internal/core/groups"
	"Yatube/internal/db/migrations"
	postgresRepo "Yatube/internal/db/postgres"
)

const usage = `usage: groupctl <command> [flags]

commands:
  create -slug <slug> -title <title> [-description <text>]
  list
  delete -slug <slug>    posts of the group are kept without a group
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := cfg.NewLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgresRepo.Open(ctx, cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := migrations.Up(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	service := groups.NewGroupService(postgresRepo.NewGroupRepository(db), logger)

	if err := run(ctx, service, os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func run(ctx context.Context, service groups.Service, command string, args []string) error {
	switch command {
	case "create":
		fs := flag.NewFlagSet("create", flag.ExitOnError)
		slug := fs.String("slug", "", "URL identifier of the group")
		title := fs.String("title", "", "display title")
		description := fs.String("description", "", "group description")
		_ = fs.Parse(args)

		group, err := service.CreateGroup(ctx, groups.CreateGroupRequest{
			Slug:        *slug,
			Title:       *title,
			Description: *description,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created group %q (id %d)\n", group.Slug, group.ID)
		return nil

	case "list":
		list, err := service.ListGroups(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSLUG\tTITLE")
		for _, g := range list {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", g.ID, g.Slug, g.Title)
		}
		return tw.Flush()

	case "delete":
		fs := flag.NewFlagSet("delete", flag.ExitOnError)
		slug := fs.String("slug", "", "group to delete")
		_ = fs.Parse(args)

		detached, err := service.DeleteGroup(ctx, *slug)
		if err != nil {
			return err
		}
		fmt.Printf("deleted group %q, %d posts detached\n", *slug, detached)
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command")
	}
}
