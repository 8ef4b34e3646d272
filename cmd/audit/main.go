package main

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/spec-kit/coordination-audit/cmd/audit/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Load      commands.LoadCmd      `cmd:"" help:"Load people from a company/employee listing into the directory"`
		Match     commands.MatchCmd     `cmd:"" help:"Find overdue coordinations in a workflow export"`
		Directory commands.DirectoryCmd `cmd:"" help:"List or search the directory"`
		Debug     bool                  `help:"Enable debug logging."`
		Version   kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("audit"),
		kong.Description("Coordination approver audit."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
