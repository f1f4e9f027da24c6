package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/travel-search/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search travel products by place",
	Long: `Search resolves country, province and city names to region codes and
prints one page of matching products. At least one of the three must resolve.

  destination   products whose destination is the place
  pass-through  products whose itinerary passes through the place
  abstract      destination then pass-through pages, itinerary content only
  detail        destination then pass-through pages, full product details`,
}

// searchMode maps a subcommand to the facade method it calls.
type searchMode struct {
	use, short string
	run        func(f *search.Facade, ctx context.Context, country, province, city string, page int) string
}

var searchModes = []searchMode{
	{"destination", "Page through products by destination", (*search.Facade).SearchByDestination},
	{"pass-through", "Page through products passing through the place", (*search.Facade).SearchByPassThrough},
	{"abstract", "Page through all products, itinerary content only", (*search.Facade).SearchCombinedAbstract},
	{"detail", "Page through all products with full details", (*search.Facade).SearchCombinedDetail},
}

func init() {
	searchCmd.PersistentFlags().String("country", "", "country name, e.g. 中国")
	searchCmd.PersistentFlags().String("province", "", "province name, e.g. 云南")
	searchCmd.PersistentFlags().String("city", "", "city name, e.g. 北京")
	searchCmd.PersistentFlags().Int("page", 1, "page number, starting at 1")

	for _, m := range searchModes {
		searchCmd.AddCommand(&cobra.Command{
			Use:   m.use,
			Short: m.short,
			Args:  cobra.NoArgs,
			RunE:  runSearch(m),
		})
	}
	rootCmd.AddCommand(searchCmd)
}

func runSearch(m searchMode) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		country, _ := cmd.Flags().GetString("country")
		province, _ := cmd.Flags().GetString("province")
		city, _ := cmd.Flags().GetString("city")
		page, _ := cmd.Flags().GetInt("page")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Fprintln(cmd.OutOrStdout(), m.run(a.facade, cmd.Context(), country, province, city, page))
		return nil
	}
}
