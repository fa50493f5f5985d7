package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/portaldeleis/lexbr/pkg/fetch"
	"github.com/portaldeleis/lexbr/pkg/ingest"
	"github.com/portaldeleis/lexbr/pkg/legaldoc"
	"github.com/portaldeleis/lexbr/pkg/library"
)

var version = "0.1.0"

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "lexbr",
		Short: "Portal de Leis Brasileiras — structural core",
		Long: `lexbr ingests Brazilian legislative texts into validated structural
trees (Título, Capítulo, Seção, Artigo, Parágrafo, Inciso, Alínea) and
answers citation-path, unit-type, and full-text queries over them.

Each ingested law is stored as an immutable, versioned snapshot; a new
version of the law never modifies an old one.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.lexbr/config.yaml)")
	rootCmd.PersistentFlags().String("library", "", "library directory (default: $HOME/.lexbr/library)")
	_ = viper.BindPFlag("library", rootCmd.PersistentFlags().Lookup("library"))

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(fetchCmd())
	rootCmd.AddCommand(ingestCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(typesCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(removeCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig loads the config file and LEXBR_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".lexbr"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("LEXBR")
	viper.AutomaticEnv()

	viper.SetDefault("cache_dir", defaultPath("cache"))
	viper.SetDefault("cache_ttl", "168h")
	viper.SetDefault("rate_limit", 1.0)
	viper.SetDefault("user_agent", "")
	if viper.GetString("library") == "" {
		viper.SetDefault("library", defaultPath("library"))
	}

	_ = viper.ReadInConfig()
}

// defaultPath resolves a subdirectory of ~/.lexbr.
func defaultPath(sub string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".lexbr", sub)
	}
	return filepath.Join(home, ".lexbr", sub)
}

func openLibrary() (*library.Library, error) {
	return library.Open(viper.GetString("library"))
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the law library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := viper.GetString("library")
			if _, err := library.Init(path); err != nil {
				return err
			}
			fmt.Printf("Initialized library at %s\n", path)
			return nil
		},
	}
}

func fetchCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Fetch a legislative source page",
		Long: `Fetch retrieves a source page (for example the planalto.gov.br page of
the Constitution), transcodes it to UTF-8, and writes it to a file or
stdout. Fetches are cached on disk and respect robots.txt and per-host
rate limits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []fetch.Option{
				fetch.WithDiskCache(viper.GetString("cache_dir"), cacheTTL()),
				fetch.WithRateLimit(viper.GetFloat64("rate_limit"), 2),
			}
			if ua := viper.GetString("user_agent"); ua != "" {
				opts = append(opts, fetch.WithUserAgent(ua))
			}

			fetcher := fetch.New(opts...)
			result, err := fetcher.Fetch(context.Background(), args[0])
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				fmt.Print(result.Body)
				return nil
			}
			if err := os.WriteFile(output, []byte(result.Body), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Printf("Fetched %s (%d bytes) to %s\n", result.URL, len(result.Body), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func ingestCmd() *cobra.Command {
	var (
		id       string
		name     string
		fromHTML bool
	)

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Ingest a legislative text into the library",
		Long: `Ingest parses a legislative text (plain text, or planalto HTML with
--html) into a validated structural tree and stores it as a new
immutable version in the library.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == "" {
				return fmt.Errorf("--id is required")
			}
			if name == "" {
				name = id
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			parser := ingest.NewParser()
			var records []legaldoc.Record
			if fromHTML {
				records, err = parser.ParseHTML(f)
			} else {
				records, err = parser.ParseText(f)
			}
			if err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			lib, err := openLibrary()
			if err != nil {
				return err
			}

			info, err := lib.AddVersion(id, name, records)
			if err != nil {
				return err
			}

			fmt.Printf("Ingested %s v%d (%d structural units)\n", id, info.Number, info.Stats.Total)
			fmt.Printf("  titles: %d  chapters: %d  articles: %d  paragraphs: %d  clauses: %d  items: %d\n",
				info.Stats.Titles, info.Stats.Chapters, info.Stats.Articles,
				info.Stats.Paragraphs, info.Stats.Clauses, info.Stats.Items)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "document identifier, e.g. cf88")
	cmd.Flags().StringVar(&name, "name", "", "display name, e.g. 'Constituição Federal de 1988'")
	cmd.Flags().BoolVar(&fromHTML, "html", false, "input is a planalto-style HTML page")
	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List laws in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary()
			if err != nil {
				return err
			}

			entries := lib.List()
			if len(entries) == 0 {
				fmt.Println("Library is empty.")
				return nil
			}
			for _, e := range entries {
				fmt.Printf("%-12s %-40s %s (v%d)\n", e.ID, e.Name, e.Status, e.Latest())
			}
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	var (
		docVersion int
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "show <id> <label>...",
		Short: "Resolve a citation path to its unit",
		Long: `Show resolves a citation path, one label per argument, and prints the
unit it names, e.g.:

  lexbr show cf88 "Título II" "Capítulo I" "Art. 5º" "Inciso II"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary()
			if err != nil {
				return err
			}
			snap, err := lib.LoadSnapshot(args[0], docVersion)
			if err != nil {
				return err
			}

			unit, err := snap.Index.QueryByPath(args[1:])
			if err != nil {
				return err
			}

			if asJSON {
				return printUnitJSON(snap, unit)
			}

			fmt.Printf("%s\n", snap.Document.Citation(unit))
			if unit.Text != "" {
				fmt.Printf("  %s\n", unit.Text)
			}
			for _, child := range snap.Document.ChildrenOf(unit) {
				fmt.Printf("  - %s\n", child.Label)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&docVersion, "doc-version", 0, "law version to query (default: latest)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the unit as JSON")
	return cmd
}

func searchCmd() *cobra.Command {
	var (
		docVersion int
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "search <id> <terms>...",
		Short: "Full-text search over a law",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary()
			if err != nil {
				return err
			}
			snap, err := lib.LoadSnapshot(args[0], docVersion)
			if err != nil {
				return err
			}

			results, err := snap.Index.SearchText(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Println("No matches.")
				return nil
			}

			if limit > 0 && len(results) > limit {
				results = results[:limit]
			}
			for _, r := range results {
				fmt.Printf("%3d  %s\n", r.Score, snap.Document.Citation(r.Unit))
				fmt.Printf("     %s\n", truncate(r.Unit.Text, 120))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&docVersion, "doc-version", 0, "law version to query (default: latest)")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum results to print (0 = all)")
	return cmd
}

func typesCmd() *cobra.Command {
	var docVersion int

	cmd := &cobra.Command{
		Use:   "types <id> <unit-type>",
		Short: "List all units of a type in document order",
		Long: `Types lists every unit of the given type, e.g.:

  lexbr types cf88 artigo
  lexbr types cf88 title`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			unitType, ok := legaldoc.ParseUnitType(strings.ToLower(args[1]))
			if !ok {
				return fmt.Errorf("unknown unit type %q", args[1])
			}

			lib, err := openLibrary()
			if err != nil {
				return err
			}
			snap, err := lib.LoadSnapshot(args[0], docVersion)
			if err != nil {
				return err
			}

			units := snap.Index.QueryByType(unitType)
			if len(units) == 0 {
				fmt.Printf("No units of type %s.\n", unitType)
				return nil
			}
			for _, u := range units {
				fmt.Println(snap.Document.Citation(u))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&docVersion, "doc-version", 0, "law version to query (default: latest)")
	return cmd
}

func statsCmd() *cobra.Command {
	var docVersion int

	cmd := &cobra.Command{
		Use:   "stats <id>",
		Short: "Show structural statistics for a law",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary()
			if err != nil {
				return err
			}
			snap, err := lib.LoadSnapshot(args[0], docVersion)
			if err != nil {
				return err
			}

			stats := legaldoc.Stats(snap.Document)
			fmt.Printf("%s (v%d)\n", snap.Entry.Name, snap.Version)
			fmt.Printf("  books:       %d\n", stats.Books)
			fmt.Printf("  titles:      %d\n", stats.Titles)
			fmt.Printf("  chapters:    %d\n", stats.Chapters)
			fmt.Printf("  sections:    %d\n", stats.Sections)
			fmt.Printf("  subsections: %d\n", stats.Subsections)
			fmt.Printf("  articles:    %d\n", stats.Articles)
			fmt.Printf("  paragraphs:  %d\n", stats.Paragraphs)
			fmt.Printf("  clauses:     %d\n", stats.Clauses)
			fmt.Printf("  items:       %d\n", stats.Items)
			fmt.Printf("  total:       %d\n", stats.Total)
			fmt.Printf("  index terms: %d\n", snap.Index.Terms())
			return nil
		},
	}

	cmd.Flags().IntVar(&docVersion, "doc-version", 0, "law version to query (default: latest)")
	return cmd
}

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a law and all of its versions from the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary()
			if err != nil {
				return err
			}
			if err := lib.Remove(args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed %s\n", args[0])
			return nil
		},
	}
}

// printUnitJSON renders one unit with its citation and children as JSON.
func printUnitJSON(snap *library.Snapshot, unit *legaldoc.Unit) error {
	type childJSON struct {
		Type  string `json:"type"`
		Label string `json:"label"`
	}
	out := struct {
		Citation string      `json:"citation"`
		Type     string      `json:"type"`
		Label    string      `json:"label"`
		Ordinal  int         `json:"ordinal"`
		Text     string      `json:"text,omitempty"`
		Children []childJSON `json:"children,omitempty"`
	}{
		Citation: snap.Document.Citation(unit),
		Type:     unit.Type.String(),
		Label:    unit.Label,
		Ordinal:  unit.Ordinal,
		Text:     unit.Text,
	}
	for _, child := range snap.Document.ChildrenOf(unit) {
		out.Children = append(out.Children, childJSON{Type: child.Type.String(), Label: child.Label})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// cacheTTL parses the configured cache TTL, falling back to a week.
func cacheTTL() time.Duration {
	ttl, err := time.ParseDuration(viper.GetString("cache_ttl"))
	if err != nil || ttl <= 0 {
		return 168 * time.Hour
	}
	return ttl
}

// truncate shortens s for single-line display.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
