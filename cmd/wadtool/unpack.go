package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	wad "github.com/logicossoftware/go-frogwad"
	"github.com/logicossoftware/go-frogwad/registry"
)

var outDir string

var unpackCmd = &cobra.Command{
	Use:   "unpack <file.wad>",
	Short: "Write the uncompressed payload of every record to a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := registry.Load(registryPath)
		if err != nil {
			return err
		}
		arc, _, err := openArchive(args[0], catalog)
		if err != nil {
			return err
		}
		paths, err := unpackArchive(arc, outDir)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", p)
		}
		return nil
	},
}

func init() {
	unpackCmd.Flags().StringVarP(&outDir, "out", "o", "out", "output directory")
	rootCmd.AddCommand(unpackCmd)
}

func unpackArchive(arc *wad.Archive, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range arc.Entries() {
		b, err := e.Payload(nil)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e, err)
		}
		p := filepath.Join(dir, entryFileName(e))
		if err := os.WriteFile(p, b, 0o644); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// entryFileName prefixes the id so that import stubs sharing a name do not collide.
func entryFileName(e *wad.Entry) string {
	name := e.Info.Name
	if strings.TrimSpace(name) == "" || name == registry.ImportStubName {
		name = e.Kind().String() + ".bin"
	}
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	return fmt.Sprintf("%05d_%s", e.ResourceID, name)
}
