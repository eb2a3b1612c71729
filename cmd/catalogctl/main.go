// Command catalogctl administers the API catalog directly against the database.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jessevdk/go-flags"

	"apiexplorer/internal/catalog"
	"apiexplorer/internal/config"
	"apiexplorer/internal/db"
	"apiexplorer/internal/models"
	"apiexplorer/internal/voting"
)

type options struct {
	DatabaseURL string `long:"database-url" env:"DATABASE_URL" description:"PostgreSQL connection string" default:"postgres://localhost:5432/apiexplorer?sslmode=disable"`
}

var opts options

// app is the state shared by every command once the database is open.
type app struct {
	database *db.DB
	svc      *catalog.Service
}

func connect(ctx context.Context) (*app, error) {
	database, err := db.New(ctx, opts.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return &app{database: database, svc: catalog.New(database)}, nil
}

// run opens the database, runs fn and closes the database again.
func run(fn func(ctx context.Context, a *app) error) error {
	ctx := context.Background()
	a, err := connect(ctx)
	if err != nil {
		return err
	}
	defer a.database.Close()
	return fn(ctx, a)
}

type idArg struct {
	ID int64 `positional-arg-name:"id" required:"yes"`
}

type listCommand struct {
	Status   string `long:"status" description:"Only show entries with this status (New, Recommended, Not Recommended)"`
	Inactive bool   `long:"inactive" description:"Include hidden entries"`
	Query    string `short:"q" long:"query" description:"Search name and description"`
}

func (c *listCommand) Execute([]string) error {
	return run(func(ctx context.Context, a *app) error {
		inactive := ""
		if c.Inactive {
			inactive = "1"
		}
		entries, err := a.svc.List(ctx, models.ParseFilter(c.Query, c.Status, inactive))
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSTATUS\tUP\tDOWN\tACTIVE\tLINK")
		for _, e := range entries {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%t\t%s\n", e.ID, e.Name, e.Status, e.VotesUp, e.VotesDown, e.Active, e.Link)
		}
		return w.Flush()
	})
}

type voteCommand struct {
	Args struct {
		ID        int64  `positional-arg-name:"id" required:"yes"`
		Direction string `positional-arg-name:"up|down" required:"yes"`
	} `positional-args:"yes"`
}

func (c *voteCommand) Execute([]string) error {
	dir, err := voting.ParseDirection(c.Args.Direction)
	if err != nil {
		return err
	}
	return run(func(ctx context.Context, a *app) error {
		e, err := a.svc.Vote(ctx, c.Args.ID, dir)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d up, %d down, %s (active: %t)\n", e.Name, e.VotesUp, e.VotesDown, e.Status, e.Active)
		return nil
	})
}

type pendingCommand struct{}

func (c *pendingCommand) Execute([]string) error {
	return run(func(ctx context.Context, a *app) error {
		reqs, err := a.svc.ListPendingRequests(ctx)
		if err != nil {
			return err
		}
		if len(reqs) == 0 {
			fmt.Println("No pending requests")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSUBMITTED\tNAME\tLINK")
		for _, r := range reqs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.ID, r.SubmittedDate.Format("2006-01-02 15:04"), r.Name, r.Link)
		}
		return w.Flush()
	})
}

type approveCommand struct {
	Reason string `long:"reason" description:"Optional note recorded with the decision"`
	Args   idArg  `positional-args:"yes"`
}

func (c *approveCommand) Execute([]string) error {
	var reason *string
	if c.Reason != "" {
		reason = &c.Reason
	}
	return run(func(ctx context.Context, a *app) error {
		req, entry, err := a.svc.ApproveRequest(ctx, c.Args.ID, reason)
		if err != nil {
			return err
		}
		fmt.Printf("Approved request %d, created API %d (%s)\n", req.ID, entry.ID, entry.Name)
		return nil
	})
}

type declineCommand struct {
	Reason string `long:"reason" required:"yes" description:"Why the request was declined"`
	Args   idArg  `positional-args:"yes"`
}

func (c *declineCommand) Execute([]string) error {
	return run(func(ctx context.Context, a *app) error {
		req, err := a.svc.DeclineRequest(ctx, c.Args.ID, c.Reason)
		if err != nil {
			return err
		}
		fmt.Printf("Declined request %d: %s\n", req.ID, *req.StatusReason)
		return nil
	})
}

type seedCommand struct {
	File string `long:"file" default:"catalog.yaml" description:"YAML catalog to load; the built-in catalog is used if it does not exist"`
}

func (c *seedCommand) Execute([]string) error {
	seed, err := config.LoadSeedCatalog(c.File)
	if err != nil {
		return err
	}
	if seed == nil {
		seed = config.DefaultSeedCatalog()
	}
	return run(func(ctx context.Context, a *app) error {
		n, err := a.database.SeedEntries(ctx, seed.NewEntries())
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Println("Catalog is not empty, nothing seeded")
			return nil
		}
		fmt.Printf("Seeded %d APIs\n", n)
		return nil
	})
}

type migrateCommand struct{}

func (c *migrateCommand) Execute([]string) error {
	return run(func(_ context.Context, a *app) error {
		if err := a.database.RunMigrations(opts.DatabaseURL); err != nil {
			return err
		}
		fmt.Println("Migrations completed successfully")
		return nil
	})
}

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.AddCommand("list", "List APIs", "List catalog entries, hiding inactive ones unless --inactive is given.", &listCommand{})
	parser.AddCommand("vote", "Vote on an API", "Cast one up or down vote on an entry.", &voteCommand{})
	parser.AddCommand("pending", "List pending requests", "List submissions awaiting moderation, oldest first.", &pendingCommand{})
	parser.AddCommand("approve", "Approve a request", "Approve a pending submission and add it to the catalog.", &approveCommand{})
	parser.AddCommand("decline", "Decline a request", "Decline a pending submission with a reason.", &declineCommand{})
	parser.AddCommand("seed", "Seed an empty catalog", "Insert the seed catalog if no APIs exist yet.", &seedCommand{})
	parser.AddCommand("migrate", "Run migrations", "Apply all pending database migrations.", &migrateCommand{})

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		if !errors.As(err, &flagsErr) {
			fmt.Fprintf(os.Stderr, "catalogctl: %v\n", err)
		}
		os.Exit(1)
	}
}
