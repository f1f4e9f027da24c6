package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Look up products by number",
}

var productFeaturesCmd = &cobra.Command{
	Use:   "features [productNum...]",
	Short: "Print the full details of one or more products",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		if len(args) == 1 {
			fmt.Fprintln(out, a.facade.GetProductFeatures(cmd.Context(), args[0]))
			return nil
		}
		fmt.Fprintln(out, a.facade.SearchProductNums(cmd.Context(), args))
		return nil
	},
}

func init() {
	productCmd.AddCommand(productFeaturesCmd)
	rootCmd.AddCommand(productCmd)
}
