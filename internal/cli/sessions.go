package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/gridwright/internal/store"
)

// NewSessionsCommand creates the sessions command.
func NewSessionsCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string
	var designName string

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded validation sessions",
		Long: `List the validation runs recorded with "validate --db". Sessions are
ordered by seq; the design hash identifies the validated snapshot so
two runs over an unchanged design show identical hash and report.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessions(rootOpts, dbPath, designName, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "session database path (required)")
	cmd.Flags().StringVar(&designName, "design", "", "filter to one design")
	cmd.MarkFlagRequired("db")
	return cmd
}

func runSessions(opts *RootOptions, dbPath, designName string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	db, err := store.Open(dbPath)
	if err != nil {
		formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open session database", err)
	}
	defer db.Close()

	sessions, err := db.ListSessions(cmd.Context(), designName)
	if err != nil {
		return WrapExitError(ExitCommandError, "list sessions", err)
	}

	return formatter.Sessions(sessions)
}
