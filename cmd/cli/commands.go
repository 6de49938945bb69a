package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/bankcore/internal/adapter/http/dto"
	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/infrastructure/logger"
	"github.com/iho/bankcore/internal/infrastructure/postgres"
)

const descriptionWidth = 40

type rootOptions struct {
	baseURL string
	timeout time.Duration
	asJSON  bool
}

func (o *rootOptions) client() *apiClient {
	return newAPIClient(o.baseURL, o.timeout)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "bankcore-cli",
		Short:         "Bankcore CLI tool",
		Long:          `A command line interface for the bankcore transaction engine.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the bankcore API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Print raw JSON responses")

	rootCmd.AddCommand(
		balanceCmd(opts),
		depositCmd(opts),
		withdrawCmd(opts),
		transferCmd(opts),
		historyCmd(opts),
		statementCmd(opts),
		clientCmd(opts),
		ledgerCmd(opts),
		migrateCmd(),
	)

	return rootCmd
}

func balanceCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account-number>",
		Short: "Show an account and its balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var account dto.AccountResponse
			if err := opts.client().getJSON(cmd.Context(), "/api/v1/accounts/"+url.PathEscape(args[0]), nil, &account); err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), account)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account: %s (%s)\nOwner:   %s\nBalance: %s\n",
				account.Number, account.Type, account.OwnerName, account.Balance)
			return nil
		},
	}
}

func movementCmd(opts *rootOptions, use, short, path string) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   use + " <account-number> <amount>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.MovementRequest{AccountNumber: args[0], Amount: args[1], Description: description}

			var txn dto.TransactionResponse
			if err := opts.client().postJSON(cmd.Context(), path, req, &txn); err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), txn)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s on %s, balance %s\n",
				txn.Type, txn.Amount, txn.AccountNumber, txn.BalanceAfter)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Transaction description")

	return cmd
}

func depositCmd(opts *rootOptions) *cobra.Command {
	return movementCmd(opts, "deposit", "Deposit money into an account", "/api/v1/transactions/deposit")
}

func withdrawCmd(opts *rootOptions) *cobra.Command {
	return movementCmd(opts, "withdraw", "Withdraw money from an account", "/api/v1/transactions/withdraw")
}

func transferCmd(opts *rootOptions) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "transfer <source-account> <target-account> <amount>",
		Short: "Transfer money between two accounts",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.TransferRequest{
				SourceAccountNumber: args[0],
				TargetAccountNumber: args[1],
				Amount:              args[2],
				Description:         description,
			}

			var resp dto.TransferResponse
			if err := opts.client().postJSON(cmd.Context(), "/api/v1/transactions/transfer", req, &resp); err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "transferred %s from %s (balance %s) to %s (balance %s)\n",
				resp.Debit.Amount, resp.Debit.AccountNumber, resp.Debit.BalanceAfter,
				resp.Credit.AccountNumber, resp.Credit.BalanceAfter)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Transaction description")

	return cmd
}

type periodFlags struct {
	start string
	end   string
}

func (p *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.start, "start", "", "Period start (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&p.end, "end", "", "Period end (YYYY-MM-DD or RFC3339)")
}

func (p *periodFlags) query() url.Values {
	q := url.Values{}
	if p.start != "" {
		q.Set("start", p.start)
	}
	if p.end != "" {
		q.Set("end", p.end)
	}
	return q
}

func historyCmd(opts *rootOptions) *cobra.Command {
	period := &periodFlags{}

	cmd := &cobra.Command{
		Use:   "history <account-number>",
		Short: "List the transactions of an account within a period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ListTransactionsResponse
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/history"
			if err := opts.client().getJSON(cmd.Context(), path, period.query(), &resp); err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tTYPE\tAMOUNT\tBALANCE\tDESCRIPTION")
			for _, txn := range resp.Transactions {
				amount := txn.Amount
				if txn.Direction == string(domain.DirectionDebit) {
					amount = "-" + amount
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					txn.CreatedAt.Format(time.DateTime), txn.Type, amount, txn.BalanceAfter,
					truncate(txn.Description, descriptionWidth))
			}
			return tw.Flush()
		},
	}
	period.register(cmd)

	return cmd
}

func statementCmd(opts *rootOptions) *cobra.Command {
	period := &periodFlags{}

	cmd := &cobra.Command{
		Use:   "statement <account-number>",
		Short: "Print the statement of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/statement"
			body, err := opts.client().do(cmd.Context(), http.MethodGet, path, period.query(), nil)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(body)
			return err
		},
	}
	period.register(cmd)

	return cmd
}

func clientCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Client operations",
	}

	status := func(use, short, action string) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <client-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var client dto.ClientResponse
				path := "/api/v1/clients/" + url.PathEscape(args[0]) + "/" + action
				if err := opts.client().postJSON(cmd.Context(), path, nil, &client); err != nil {
					return err
				}
				if opts.asJSON {
					return printJSON(cmd.OutOrStdout(), client)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "client %s is now %s\n", client.ID, client.Status)
				return nil
			},
		}
	}

	cmd.AddCommand(
		status("suspend", "Suspend a client and block its accounts", "suspend"),
		status("activate", "Reactivate a suspended client", "activate"),
	)

	return cmd
}

func ledgerCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result map[string]any
			err := opts.client().getJSON(cmd.Context(), "/api/v1/ledger/consistency", nil, &result)

			var apiErr *apiError
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
				fmt.Fprintln(cmd.OutOrStdout(), "Consistency check FAILED")
				return err
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Consistency check PASSED")
			fmt.Fprintf(cmd.OutOrStdout(), "Status: %v\n", result["status"])
			return nil
		},
	}

	reconcileCmd := &cobra.Command{
		Use:   "reconcile [account-number]",
		Short: "Compare recorded balances with ledger history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				var result dto.ReconciliationResponse
				path := "/api/v1/ledger/reconciliation/" + url.PathEscape(args[0])
				if err := opts.client().getJSON(cmd.Context(), path, nil, &result); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			}

			var report dto.ReconciliationReportResponse
			if err := opts.client().getJSON(cmd.Context(), "/api/v1/ledger/reconciliation", nil, &report); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.AddCommand(consistencyCmd, reconcileCmd)

	return cmd
}

// migrateCmd runs schema migrations directly against the database.
func migrateCmd() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")

	migrator := func() (*postgres.Migrator, error) {
		if databaseURL == "" {
			return nil, errors.New("--database-url or DATABASE_URL is required")
		}
		log := logger.New(logger.Config{Level: "info", Format: "console"})
		return postgres.NewMigrator(databaseURL, log), nil
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator()
			if err != nil {
				return err
			}
			return m.Up()
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator()
			if err != nil {
				return err
			}
			return m.Down()
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator()
			if err != nil {
				return err
			}
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %v)\n", version, dirty)
			return nil
		},
	}

	cmd.AddCommand(upCmd, downCmd, versionCmd)

	return cmd
}

