package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
)

type LoadCmd struct {
	File          string            `help:"Company/employee listing (.csv or .xlsx)" required:"" type:"existingfile"`
	Assign        map[string]string `help:"Company for a public-mailbox address, as email=Company (repeatable)"`
	DirectoryFile string            `help:"Use this JSON directory file instead of the configured backend" type:"path"`
}

func (l *LoadCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(ctx, globals, l.DirectoryFile)
	if err != nil {
		return err
	}
	defer e.close()

	f, err := os.Open(l.File)
	if err != nil {
		return fmt.Errorf("open listing: %w", err)
	}
	defer f.Close()

	res, err := e.directory.Import(ctx, filepath.Base(l.File), f, l.Assign)
	if err != nil {
		return err
	}

	fmt.Fprintf(e.out, "added %d, skipped %d known, %d awaiting a company, %d people in directory\n",
		len(res.Added), res.Skipped, len(res.Pending), res.Total)

	if len(res.Pending) == 0 {
		return nil
	}
	fmt.Fprintln(e.out, "\nPublic mailboxes need a company; rerun with --assign email=Company:")
	tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tEMAIL\tLISTED IN")
	for _, p := range res.Pending {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, p.Email, p.Line)
	}
	return tw.Flush()
}
