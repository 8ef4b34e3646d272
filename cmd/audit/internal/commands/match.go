package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spec-kit/coordination-audit/internal/api/dto"
	"github.com/spec-kit/coordination-audit/internal/overdue"
	"github.com/spec-kit/coordination-audit/internal/service"
	"github.com/spec-kit/coordination-audit/internal/tabular"
)

type MatchCmd struct {
	File          string `help:"Coordination export (.csv or .xlsx)" required:"" type:"existingfile"`
	Date          string `help:"Reference date (YYYY-MM-DD); defaults to today"`
	Policy        string `help:"SLA policy YAML; overrides AUDIT_POLICY_FILE" type:"existingfile"`
	XlsxOut       string `help:"Write the overdue detail table to this .xlsx file" type:"path"`
	EmailsOut     string `help:"Write the deduplicated overdue emails to this file" type:"path"`
	DirectoryFile string `help:"Use this JSON directory file instead of the configured backend" type:"path"`
}

func (m *MatchCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(ctx, globals, m.DirectoryFile)
	if err != nil {
		return err
	}
	defer e.close()

	policyFile := e.cfg.Audit.PolicyFile
	if m.Policy != "" {
		policyFile = m.Policy
	}
	policy, err := service.LoadAuditPolicy(policyFile)
	if err != nil {
		return err
	}

	audit, err := service.NewAuditService(service.AuditDependencies{
		Directory:  e.directory,
		Policy:     policy,
		Location:   e.cfg.Audit.Location(),
		Dispatcher: e.dispatcher,
		Logger:     e.logger,
	})
	if err != nil {
		return err
	}

	reference, err := audit.ReferenceDate(m.Date)
	if err != nil {
		return err
	}

	f, err := os.Open(m.File)
	if err != nil {
		return fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	res, err := audit.Run(ctx, filepath.Base(m.File), f, reference)
	if err != nil {
		return err
	}

	if err := printResult(e, reference.Format(service.ReferenceDateLayout), res); err != nil {
		return err
	}
	if m.XlsxOut != "" {
		if err := writeFile(m.XlsxOut, func(f *os.File) error { return tabular.WriteDetailsXLSX(f, res.Details) }); err != nil {
			return err
		}
	}
	if m.EmailsOut != "" {
		if err := writeFile(m.EmailsOut, func(f *os.File) error { return tabular.WriteEmails(f, res.UniqueEmails()) }); err != nil {
			return err
		}
	}
	return nil
}

func printResult(e *env, referenceDate string, res *overdue.Result) error {
	fmt.Fprintf(e.out, "reference date %s: %d overdue, %d unique emails, %d companies\n",
		referenceDate, len(res.OverdueIDs), len(res.UniqueEmails()), len(res.OverdueCounts))

	tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	if len(res.OverdueCounts) > 0 {
		fmt.Fprintln(tw, "\nCOMPANY\tOVERDUE")
		for _, c := range dto.SortedCounts(res.OverdueCounts) {
			fmt.Fprintf(tw, "%s\t%d\n", c.Company, c.Count)
		}
	}
	if len(res.Details) > 0 {
		fmt.Fprintln(tw, "\nID\tDEADLINE\tDAYS\tCOMPANIES\tEXPLANATION")
		for _, d := range res.Details {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
				d.ID, d.Deadline.Format(service.ReferenceDateLayout), d.WorkingDays, strings.Join(d.Companies, ", "), d.Explanation)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(res.Unresolved) > 0 {
		fmt.Fprintf(e.out, "\nnot found in directory: %s\n", strings.Join(res.Unresolved, "; "))
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
