package main

import (
	"fmt"

	"emgcheck/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var historyDB string

var historyCommand = &cobra.Command{
	Use:   "history [preset...]",
	Short: "show stored reports",
	Long:  `Prints the summary of every stored report of the given presets, or of all presets with history.`,
	Run: func(_ *cobra.Command, args []string) {
		if err := historyExec(args); err != nil {
			fmt.Printf("history err: %v\n", err)
		}
	},
}

func init() {
	historyCommand.Flags().StringVar(&historyDB, "db", "emgcheck.db", "report database")
}

func historyExec(names []string) (err error) {
	s, err := store.Open(historyDB)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, s.Close())
	}()

	if len(names) == 0 {
		if names, err = s.Scenarios(); err != nil {
			return err
		}
	}
	for _, name := range names {
		history, err := s.History(name)
		if err != nil {
			return err
		}
		for _, r := range history {
			fmt.Printf("%s %s\n", r.Started.Format("2006-01-02 15:04:05"), r.Summary())
		}
	}
	return nil
}
