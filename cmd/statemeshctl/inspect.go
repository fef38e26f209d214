package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cuemby/statemesh/pkg/codec"
	"github.com/cuemby/statemesh/pkg/config"
	"github.com/cuemby/statemesh/pkg/persistence"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <id>",
	Short: "Decode and print the persisted row for an actor id",
	Long: `Inspect opens a statemesh BoltDB data directory and pretty-prints
the decoded parent and child snapshots saved under the given actor id.

Examples:
  # Inspect the row saved under "hamster-1"
  statemeshctl inspect hamster-1 --data-dir ./data

  # Decode date_millis / other named field transforms from a config file
  statemeshctl inspect hamster-1 --data-dir ./data --transforms transforms.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().String("data-dir", ".", "Directory containing statemesh.db")
	inspectCmd.Flags().String("transforms", "", "Optional YAML file of codec field transforms")
}

func runInspect(cmd *cobra.Command, args []string) error {
	id := args[0]
	dataDir, _ := cmd.Flags().GetString("data-dir")
	transformsPath, _ := cmd.Flags().GetString("transforms")

	var table codec.TransformTable
	if transformsPath != "" {
		loaded, err := config.LoadTransforms(transformsPath)
		if err != nil {
			return fmt.Errorf("load transforms: %w", err)
		}
		table = loaded
	}

	store, err := persistence.NewBoltStore(dataDir)
	if err != nil {
		return fmt.Errorf("open data dir %q: %w", dataDir, err)
	}
	defer store.Close()

	mgr := persistence.NewManager(store, codec.NewJSONCodec(table))
	parent, children, ok, err := mgr.Load(id)
	if err != nil {
		return fmt.Errorf("load %q: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("no row saved under id %q", id)
	}

	out := map[string]any{
		"id":     id,
		"parent": parent,
		"children": func() map[string]any {
			m := make(map[string]any, len(children))
			for childID, snap := range children {
				m[childID] = snap
			}
			return m
		}(),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
