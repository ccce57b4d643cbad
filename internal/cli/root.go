package cli

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/credseal/internal/config"
)

// ErrLoginFailed is returned by the login command after it has printed the
// rejection, so main only needs to set the exit code.
var ErrLoginFailed = errors.New("login failed")

type runner struct {
	configPath string
	app        *App
	in         *Input
}

// NewRootCommand builds the command tree. Output goes to the command's
// configured writers so tests can capture it.
func NewRootCommand() *cobra.Command {
	r := &runner{}

	root := &cobra.Command{
		Use:           "credseal",
		Short:         "Sealed credential store and login verifier",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(r.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			app, err := newApp(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			r.app = app
			r.in = NewInput(cmd.InOrStdin())
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if r.app == nil {
				return nil
			}
			return r.app.Close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&r.configPath, "config", "c", "", "path to a JSON or YAML config file")
	config.RegisterFlags(pf)

	root.AddCommand(
		newMigrateCommand(r),
		newUserAddCommand(r),
		newLoginCommand(r),
		newKeygenCommand(),
		newConfigCommand(r),
		newVersionCommand(),
	)

	return root
}

func (r *runner) stdin() *Input {
	return r.in
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
