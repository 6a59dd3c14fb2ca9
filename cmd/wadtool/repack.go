package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	wad "github.com/logicossoftware/go-frogwad"
	"github.com/logicossoftware/go-frogwad/registry"
)

var (
	compressionName string
	verifyHashes    bool
	saveRegistry    bool
)

var repackCmd = &cobra.Command{
	Use:   "repack <in.wad> <out.wad>",
	Short: "Decode a WAD and encode it again",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		comp, err := wad.ParseCompression(compressionName)
		if err != nil {
			return err
		}
		catalog, err := registry.Load(registryPath)
		if err != nil {
			return err
		}
		in, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		out, identical, err := repack(in, catalog, comp, verifyHashes)
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[1], out, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes, identical=%t)\n", args[1], len(out), identical)
		if saveRegistry {
			b, err := catalog.Marshal()
			if err != nil {
				return err
			}
			return os.WriteFile(registryPath, b, 0o644)
		}
		return nil
	},
}

func init() {
	repackCmd.Flags().StringVarP(&compressionName, "compression", "c", "zstd", "compression for records that were compressed")
	repackCmd.Flags().BoolVar(&verifyHashes, "verify", false, "verify payload digests against the catalog")
	repackCmd.Flags().BoolVar(&saveRegistry, "save-registry", false, "write digests recorded during --verify back to the catalog")
	rootCmd.AddCommand(repackCmd)
}

// repack decodes in, encodes it with comp and checks that the result decodes
// to the same records.
func repack(in []byte, catalog *registry.Catalog, comp wad.Compression, verify bool) ([]byte, bool, error) {
	arc, report, err := wad.DecodeBytes(in, catalog, readOptions(wad.WithVerifyHashes(verify))...)
	if err != nil {
		return nil, false, err
	}
	for _, rec := range report.Errors() {
		logger.WithField("prefix", "repack").Warnf("%s: %s: %v", rec.Entry, rec.Outcome, rec.Err)
	}
	out, err := wad.EncodeBytes(arc, wad.WithWriteCodec(wad.NewCodec(comp)))
	if err != nil {
		return nil, false, err
	}
	again, _, err := wad.DecodeBytes(out, catalog, readOptions()...)
	if err != nil {
		return nil, false, fmt.Errorf("re-decode: %w", err)
	}
	if again.Len() != arc.Len() {
		return nil, false, fmt.Errorf("re-decode: %d records, want %d", again.Len(), arc.Len())
	}
	return out, bytes.Equal(in, out), nil
}
