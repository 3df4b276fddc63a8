package main

import (
	"fmt"

	"emgcheck/internal/config"

	"github.com/spf13/cobra"
)

var listCommand = &cobra.Command{
	Use:   "list",
	Short: "list available presets",
	Long:  ``,
	Run: func(*cobra.Command, []string) {
		if err := listExec(); err != nil {
			fmt.Printf("list err: %v\n", err)
		}
	},
}

func init() {
	listCommand.Flags().StringVar(&ConfigFile, "config", "", "config file adding presets")
}

func listExec() error {
	c, err := config.ReadConfig(ConfigFile)
	if err != nil {
		return err
	}
	catalog, err := c.Catalog()
	if err != nil {
		return err
	}
	for _, name := range catalog.Names() {
		tpl, _ := catalog.Get(name)
		expect := "clean"
		if len(tpl.Expect) > 0 {
			expect = fmt.Sprint(tpl.Expect)
		}
		fmt.Printf("\033[36m%-22s\033[0m %-8s %-9s %-9s %s\n", name, tpl.Flavor, tpl.Setup, tpl.Callback, expect)
	}
	return nil
}
