package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ophelios-studio/zephyrus/mux"
)

var routesCmd = &cobra.Command{
	Use:   "routes [method]",
	Short: "List the route table",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		table := a.repo.Table()
		methods := a.repo.Methods()
		if len(args) == 1 {
			methods = []string{strings.ToUpper(args[0])}
		}
		return printRoutes(cmd.OutOrStdout(), methods, table)
	},
}

var matchCmd = &cobra.Command{
	Use:   "match METHOD PATH",
	Short: "Show the routes matching a request, in lookup order",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		method, path := strings.ToUpper(args[0]), args[1]
		found := a.repo.FindRoutes(method, path)
		out := cmd.OutOrStdout()
		if len(found) == 0 {
			fmt.Fprintf(out, "no route matches %s %s\n", method, path)
			return nil
		}
		for i, d := range found {
			params, _ := d.Params(path)
			fmt.Fprintf(out, "%d. %s", i+1, d.Route())
			for _, p := range params {
				fmt.Fprintf(out, " %s=%s", p.Name, p.Value)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func printRoutes(w io.Writer, methods []string, table map[string][]*mux.RouteDefinition) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATTERN\tACCEPTS\tRULES\tHANDLER")
	for _, m := range methods {
		for _, d := range table[m] {
			info := d.Info()
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m, info.Pattern,
				strings.Join(info.ContentTypes, ","),
				strings.Join(info.AuthorizationRules, ","),
				info.Handler)
		}
	}
	return tw.Flush()
}
