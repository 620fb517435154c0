package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/hire-signal/internal/logger"
	"github.com/spigell/hire-signal/internal/normalize"
	"github.com/spigell/hire-signal/internal/taxonomy"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Inspect the skill taxonomy",
}

var taxonomyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List taxonomy entries",
	Run: func(cmd *cobra.Command, _ []string) {
		category, _ := cmd.Flags().GetString("category")
		listTaxonomy(mustTaxonomy(), taxonomy.Category(category))
	},
}

var taxonomyLookupCmd = &cobra.Command{
	Use:   "lookup <skill>...",
	Short: "Show how skill strings normalize",
	Args:  cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		lookupTaxonomy(mustTaxonomy(), args)
	},
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)
	taxonomyCmd.AddCommand(taxonomyListCmd, taxonomyLookupCmd)

	taxonomyListCmd.Flags().StringP("category", "c", "", "only list entries of this category")
}

func mustTaxonomy() *taxonomy.Taxonomy {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	return taxonomyOrFatal(config, logger)
}

func taxonomyOrFatal(config *Config, logger *zap.Logger) *taxonomy.Taxonomy {
	tax, err := loadTaxonomy(config)
	if err != nil {
		logger.Fatal("loading taxonomy", zap.String("file", config.TaxonomyFile), zap.Error(err))
	}

	logger.Debug("taxonomy loaded", zap.String("version", tax.Version()), zap.Int("entries", len(tax.Entries())))
	return tax
}

func listTaxonomy(tax *taxonomy.Taxonomy, category taxonomy.Category) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "# taxonomy version %s\n", tax.Version())
	fmt.Fprintln(w, "CANONICAL\tCATEGORY\tALIASES")
	for _, e := range tax.Entries() {
		if category != "" && e.Category != category {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Canonical, e.Category, strings.Join(e.Aliases, ", "))
	}

	for _, c := range tax.Conflicts() {
		fmt.Fprintf(w, "# alias %q resolves to %s, not %s\n", c.Alias, c.Winner, c.Loser)
	}
}

func lookupTaxonomy(tax *taxonomy.Taxonomy, args []string) {
	n := normalize.New(tax, nil)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "INPUT\tCANONICAL\tCATEGORY\tDEPTH")
	for _, arg := range args {
		s, ok := n.One(arg)
		if !ok {
			continue
		}
		canonical := s.Canonical
		if canonical == "" {
			canonical = "-"
		}
		category := string(s.Category)
		if category == "" {
			category = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", arg, canonical, category, s.Depth)
	}
}
