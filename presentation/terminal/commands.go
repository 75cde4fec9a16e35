package terminal

import (
	"errors"
	"fmt"
	"sort"

	"storefront_automation/application/runner"
	"storefront_automation/domain/entities"

	"github.com/spf13/cobra"
)

// errScenariosFailed - returned by run so the process exits non-zero
var errScenariosFailed = errors.New("one or more scenarios failed")

func (t *TerminalInterface) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront UI automation",
		Long:          `Runs login, registration and account scenarios against the storefront in a real browser`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		t.runCommand(),
		t.listCommand(),
		t.dataCommand(),
		t.historyCommand(),
		t.envCommand(),
	)
	return root
}

func (t *TerminalInterface) runCommand() *cobra.Command {
	var dataKey string

	cmd := &cobra.Command{
		Use:   "run [scenario...]",
		Short: "Run scenarios; every registered scenario when none are named",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dataKey != "" && len(args) != 1 {
				return fmt.Errorf("--data needs exactly one scenario")
			}
			registry := runner.Default()
			for _, name := range args {
				if _, err := registry.Lookup(name); err != nil {
					return err
				}
			}
			r, err := t.newRunner()
			if err != nil {
				return err
			}

			var results []entities.RunResult
			if len(args) == 0 {
				results, err = r.RunAll(cmd.Context())
			} else {
				for _, name := range args {
					var res entities.RunResult
					res, err = r.Run(cmd.Context(), name, dataKey)
					if res.ID != "" {
						results = append(results, res)
					}
					if err != nil {
						break
					}
				}
			}

			for _, res := range results {
				printResult(t.out, res)
			}
			printSummary(t.out, results)
			if err != nil {
				return err
			}
			if !runner.Passed(results) {
				return errScenariosFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dataKey, "data", "", "data record key to run the scenario with (e.g. login.valid_user)")
	return cmd
}

func (t *TerminalInterface) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printScenarios(t.out, runner.Default().Scenarios())
			return nil
		},
	}
}

func (t *TerminalInterface) dataCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "data [key]",
		Short: "List data record keys, or show one record",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := t.scenarioData()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				for _, key := range data.Keys() {
					fmt.Fprintln(t.out, key)
				}
				return nil
			}

			record, err := data.Record(args[0])
			if err != nil {
				return err
			}
			fields := make([]string, 0, len(record))
			for field := range record {
				fields = append(fields, field)
			}
			sort.Strings(fields)
			for _, field := range fields {
				fmt.Fprintf(t.out, "%-20s %s\n", field, record[field])
			}
			return nil
		},
	}
}

func (t *TerminalInterface) historyCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded scenario runs, newest last",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := t.history().LoadHistory()
			if err != nil {
				return err
			}
			if limit > 0 && len(results) > limit {
				results = results[len(results)-limit:]
			}
			if len(results) == 0 {
				fmt.Fprintln(t.out, "No runs recorded yet")
				return nil
			}
			for _, res := range results {
				printResult(t.out, res)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most this many runs (0 for all)")
	return cmd
}

func (t *TerminalInterface) envCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show the resolved run settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := t.settings
			rows := [][2]string{
				{"environment", s.Environment},
				{"base url", s.BaseURL},
				{"backend", s.Backend},
				{"browser", s.Browser},
				{"headless", fmt.Sprint(s.IsHeadless())},
				{"ci", fmt.Sprint(s.IsCI)},
				{"timeout", s.DefaultTimeout.Duration().String()},
				{"data dir", s.DataDir},
				{"reports dir", s.ReportsDir},
			}
			for _, row := range rows {
				fmt.Fprintf(t.out, "%-12s %s\n", row[0], row[1])
			}
			return nil
		},
	}
}
