// layoutconv converts a snapshot YAML (roadnet run --yaml, roadnet snapshots
// show) back into an editable layout YAML.
//
// Usage:
//
//	go run ./cmd/layoutconv <snapshot.yaml> <layout.yaml>
package main

import (
	"fmt"
	"os"

	"github.com/roadnet/editor/internal/data"
	"github.com/roadnet/editor/internal/snapshot"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: layoutconv <snapshot.yaml> <layout.yaml>")
		os.Exit(1)
	}
	if err := convert(os.Args[1], os.Args[2]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func convert(in, out string) error {
	inFile, err := os.Open(in)
	if err != nil {
		return err
	}
	defer inFile.Close()

	s, err := snapshot.ReadYAML(inFile)
	if err != nil {
		return err
	}
	layout := data.FromSnapshot(s)

	outFile, err := os.Create(out)
	if err != nil {
		return err
	}
	defer outFile.Close()

	fmt.Fprintf(outFile, "# Layout generated from snapshot %s (%d roads, %d free segments)\n",
		s.ID, len(layout.Roads), len(layout.Segments))
	if err := layout.WriteYAML(outFile); err != nil {
		return err
	}
	if err := outFile.Close(); err != nil {
		return err
	}

	fmt.Printf("Wrote %d layout entries to %s\n", layout.Count(), out)
	return nil
}
