// samplectl administers the credential store and checks exported workbooks
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/abelzeko/water-samples/internal/config"
	"github.com/abelzeko/water-samples/internal/entities"
	"github.com/abelzeko/water-samples/internal/integration/excel"
	"github.com/abelzeko/water-samples/internal/repository"
	"github.com/abelzeko/water-samples/internal/usecases"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var dbPath string

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "samplectl",
		Short:        "Administration tool for the water sample register",
		SilenceUsage: true,
	}

	cfg, err := config.Load()
	defaultDB := "data/users.db"
	if err == nil {
		defaultDB = cfg.UsersDBPath
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "Path to the credential database")

	rootCmd.AddCommand(newUserCmd())
	rootCmd.AddCommand(newHashCmd())
	rootCmd.AddCommand(newInspectCmd())
	return rootCmd
}

func newUserCmd() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users allowed to open the form",
	}

	var name, email, password string
	addCmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Add a user or replace an existing user's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				if password, err = readPassword(cmd); err != nil {
					return err
				}
			}
			repo, err := repository.NewSQLiteUserRepository(dbPath)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := usecases.NewAuthUseCase(repo).AddUser(args[0], name, email, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %s saved\n", args[0])
			return nil
		},
	}
	addCmd.Flags().StringVar(&name, "name", "", "Display name")
	addCmd.Flags().StringVar(&email, "email", "", "Email address")
	addCmd.Flags().StringVar(&password, "password", "", "Password (prompted from stdin when empty)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repository.NewSQLiteUserRepository(dbPath)
			if err != nil {
				return err
			}
			defer repo.Close()

			users, err := repo.ListUsers()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "USERNAME\tNAME\tEMAIL")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\n", u.Username, u.Name, u.Email)
			}
			return w.Flush()
		},
	}

	userCmd.AddCommand(addCmd, listCmd)
	return userCmd
}

func newHashCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Print a bcrypt hash for a SEED_USERS entry, reading the password from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			hash, err := usecases.HashPassword(password, cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.xlsx>",
		Short: "Read an exported register and print its samples",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			records, err := excel.Import(f)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tDATE\tTYPE\tPH\tCHLORINE\tTEMP")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%.2f\n",
					r.Code, r.Date.Format(entities.DateLayout), r.SampleType, r.PH, r.Chlorine, r.Temperature)
			}
			fmt.Fprintf(w, "\n%d samples\n", len(records))
			return w.Flush()
		},
	}
}

func readPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
