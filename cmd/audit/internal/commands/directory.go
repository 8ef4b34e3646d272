package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spec-kit/coordination-audit/internal/domain"
)

type DirectoryCmd struct {
	Search        string `help:"Only show people whose name or email fuzzily matches"`
	Limit         int    `help:"Maximum number of search results" default:"20"`
	DirectoryFile string `help:"Use this JSON directory file instead of the configured backend" type:"path"`
}

func (d *DirectoryCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(ctx, globals, d.DirectoryFile)
	if err != nil {
		return err
	}
	defer e.close()

	var people []domain.PersonRecord
	if d.Search != "" {
		for _, hit := range e.directory.Search(d.Search, d.Limit) {
			people = append(people, hit.Person)
		}
	} else {
		people = e.directory.People()
	}

	tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tEMAIL\tCOMPANY\tSOURCE\tTEAM")
	for _, p := range people {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.Email, p.Company, p.Source, strings.Join(p.TeamEmails, " / "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "%d people\n", len(people))
	return nil
}
