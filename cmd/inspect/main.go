package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/nightjarlabs/companion-core/internal/patterns"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to companion.db")
	user := flag.String("user", "", "user to inspect")
	last := flag.Int("last", 20, "show N most recent pattern records")
	profileOnly := flag.Bool("profile", false, "show the profile only")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" || *user == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/companion.db --user id [--last N] [--profile] [--json]")
		os.Exit(2)
	}

	repo, err := patterns.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()

	if err := printProfile(ctx, repo, *user, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *profileOnly {
		return
	}
	if err := printRecords(ctx, repo, *user, *last, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region profile

func printProfile(ctx context.Context, repo *patterns.SQLRepository, user string, jsonOut bool) error {
	p, ok, err := repo.Profile(ctx, user)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "no profile for user %s\n", user)
		return nil
	}

	if jsonOut {
		out, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("user:           %s\n", p.UserID)
	fmt.Printf("dominant focal: %s\n", p.DominantFocal)
	fmt.Printf("trajectory:     %s\n", p.Trajectory)
	fmt.Printf("updated:        %s\n", p.UpdatedAt.Format("2006-01-02 15:04:05"))
	if len(p.Themes) > 0 {
		var themes []string
		for kw, n := range p.Themes {
			themes = append(themes, fmt.Sprintf("%s(%d)", kw, n))
		}
		fmt.Printf("themes:         %s\n", strings.Join(themes, " "))
	}
	for _, sp := range p.StuckPoints {
		fmt.Printf("stuck:          %s\n", sp)
	}
	for _, bt := range p.Breakthroughs {
		fmt.Printf("breakthrough:   %s\n", bt)
	}
	return nil
}

// #endregion profile

// #region records

func printRecords(ctx context.Context, repo *patterns.SQLRepository, user string, last int, jsonOut bool) error {
	recs, err := repo.Recent(ctx, user, last)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(os.Stderr, "no records found")
		return nil
	}

	if jsonOut {
		out, err := json.MarshalIndent(recs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("\n%-20s %-10s %-8s %-6s %-10s %s\n",
		"created", "focal", "element", "conf", "resolution", "keywords")
	for _, r := range recs {
		fmt.Printf("%-20s %-10s %-8s %-6.2f %-10s %s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.Focal, r.Element,
			r.Confidence, r.Resolution, strings.Join(r.Keywords, ","))
	}
	return nil
}

// #endregion records
