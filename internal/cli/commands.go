package cli

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/credseal/internal/accounts"
	"github.com/dmitrijs2005/credseal/internal/auth"
	"github.com/dmitrijs2005/credseal/internal/buildinfo"
	"github.com/dmitrijs2005/credseal/internal/common"
	"github.com/dmitrijs2005/credseal/internal/credentials"
)

func newMigrateCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the credential tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := r.app.openDB(ctx); err != nil {
				return err
			}
			if err := r.app.repos.RunMigrations(ctx, r.app.db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(out(cmd), "Migrations applied")
			return nil
		},
	}
}

func newUserAddCommand(r *runner) *cobra.Command {
	var (
		email  string
		admin  bool
		schema string
	)

	cmd := &cobra.Command{
		Use:   "useradd <username>",
		Short: "Create a user; the password is prompted twice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if schema == "" {
				schema = r.app.cfg.ProvisionSchema
			}
			target, err := credentials.ParseSchema(schema)
			if err != nil {
				return err
			}

			if err := r.app.initAuth(ctx); err != nil {
				return err
			}

			pw, err := GetNewPassword(r.stdin(), out(cmd))
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)

			id, err := r.app.accounts.CreateUser(ctx, accounts.NewUser{
				Username: args[0],
				Email:    email,
				Password: string(pw),
				IsAdmin:  admin,
				Schema:   target,
			})
			if err != nil {
				if errors.Is(err, common.ErrorAlreadyExists) {
					return fmt.Errorf("username %q already exists", args[0])
				}
				return err
			}

			fmt.Fprintf(out(cmd), "User %s created (id %d, schema %s)\n", args[0], id, target)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant administrative role")
	cmd.Flags().StringVar(&schema, "schema", "", "target schema (primary|legacy); defaults to provision-schema")
	return cmd
}

func newLoginCommand(r *runner) *cobra.Command {
	var showMetrics bool

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Verify a username and password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := r.app.initAuth(ctx); err != nil {
				return err
			}

			pw, err := GetPassword(r.stdin(), out(cmd), "Password: ")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)

			res := r.app.auth.VerifyLogin(ctx, args[0], string(pw))

			if showMetrics {
				defer r.app.printMetrics(out(cmd))
			}

			switch res.Status {
			case auth.StatusSuccess:
				fmt.Fprintf(out(cmd), "Login successful (schema %s, admin %t)\n", res.Record.Origin, res.Record.IsAdmin)
				return nil
			case auth.StatusStorageError:
				return fmt.Errorf("storage error: %w", res.Err)
			default:
				fmt.Fprintln(out(cmd), "Invalid username or password")
				return ErrLoginFailed
			}
		},
	}

	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "print verification counters after the attempt")
	return cmd
}

func newKeygenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Print a fresh sealing key, pepper and key id",
		Args:  cobra.NoArgs,
		// key generation needs no configuration
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			keyID, err := common.MakeRandHexString(4)
			if err != nil {
				return err
			}
			key := common.GenerateRandByteArray(32)
			pepper := common.GenerateRandByteArray(24)
			defer common.WipeByteArray(key)
			defer common.WipeByteArray(pepper)

			w := out(cmd)
			fmt.Fprintf(w, "L8_PWD_KEY_B64=%s\n", base64.StdEncoding.EncodeToString(key))
			fmt.Fprintf(w, "L8_PEPPER=%s\n", base64.StdEncoding.EncodeToString(pepper))
			fmt.Fprintf(w, "L8_PWD_KEY_ID=%s\n", keyID)
			return nil
		},
	}
}

func newConfigCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(out(cmd))
			enc.SetIndent("", "  ")
			return enc.Encode(r.app.cfg.Summary())
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Print version information",
		Args:              cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			buildinfo.PrintBuildData(out(cmd))
		},
	}
}
