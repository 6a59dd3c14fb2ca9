package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	wad "github.com/logicossoftware/go-frogwad"
	"github.com/logicossoftware/go-frogwad/registry"
)

type entrySummary struct {
	ID         int32  `json:"id"`
	Name       string `json:"name"`
	Tag        int32  `json:"tag"`
	Kind       string `json:"kind"`
	Compressed bool   `json:"compressed"`
	Outcome    string `json:"outcome"`
	Parent     string `json:"parent,omitempty"`
	Error      string `json:"error,omitempty"`
}

type summary struct {
	Theme       string         `json:"theme,omitempty"`
	Entries     []entrySummary `json:"entries"`
	Loaded      int            `json:"loaded"`
	Errored     int            `json:"errored"`
	UnknownType int            `json:"unknown_type"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.wad>",
	Short: "Print a JSON summary of every record in a WAD",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := registry.Load(registryPath)
		if err != nil {
			return err
		}
		arc, report, err := openArchive(args[0], catalog)
		if err != nil {
			return err
		}
		return writeSummary(cmd.OutOrStdout(), summarize(arc, report))
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func summarize(arc *wad.Archive, report *wad.Report) summary {
	owners := make(map[*wad.MeshObjectHolder]*wad.Entry)
	for _, e := range arc.Entries() {
		if mof, ok := e.Resource.(*wad.MeshObjectHolder); ok {
			owners[mof] = e
		}
	}
	s := summary{
		Theme:       string(arc.Theme),
		Loaded:      report.Count(wad.OutcomeLoaded),
		Errored:     report.Count(wad.OutcomeErrored),
		UnknownType: report.Count(wad.OutcomeUnknownType),
	}
	for _, rec := range report.Records {
		e := rec.Entry
		es := entrySummary{
			ID:         e.ResourceID,
			Name:       e.DisplayName(),
			Tag:        int32(e.Tag),
			Kind:       e.Kind().String(),
			Compressed: e.Compressed(),
			Outcome:    rec.Outcome.String(),
		}
		if mof, ok := e.Resource.(*wad.MeshObjectHolder); ok && mof.Parent != nil {
			if p, ok := owners[mof.Parent]; ok {
				es.Parent = p.DisplayName()
			}
		}
		if rec.Err != nil {
			es.Error = rec.Err.Error()
		}
		s.Entries = append(s.Entries, es)
	}
	return s
}

func writeSummary(w io.Writer, s summary) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
