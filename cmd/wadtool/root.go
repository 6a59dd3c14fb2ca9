package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	wad "github.com/logicossoftware/go-frogwad"
	"github.com/logicossoftware/go-frogwad/registry"
)

var logger = logrus.New()

var (
	registryPath string
	theme        string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wadtool",
	Short: "Inspect, unpack and repack WAD resource bundles",
	Long: `wadtool reads WAD resource bundles using a YAML resource catalog to name
every record. It can summarize a WAD, extract the payload of every record, and
write a WAD back out to check that it survives a decode/encode round trip.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.Level = logrus.DebugLevel
		}
	},
	SilenceUsage: true,
}

func init() {
	logger.Formatter = new(prefixed.TextFormatter)
	logger.Out = os.Stderr
	rootCmd.PersistentFlags().StringVarP(&registryPath, "registry", "r", "", "resource catalog (YAML)")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "", "archive theme, e.g. GEN or ORG")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	_ = rootCmd.MarkPersistentFlagRequired("registry")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

func readOptions(extra ...wad.ReadOption) []wad.ReadOption {
	opts := []wad.ReadOption{
		wad.WithLogger(logger.WithField("prefix", "decode")),
		wad.WithTheme(wad.Theme(theme)),
	}
	return append(opts, extra...)
}

func openArchive(path string, catalog *registry.Catalog, extra ...wad.ReadOption) (*wad.Archive, *wad.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	arc, report, err := wad.Decode(f, catalog, readOptions(extra...)...)
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return arc, report, nil
}
