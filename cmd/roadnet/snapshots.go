package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roadnet/editor/internal/persist"
)

var errDatabaseDisabled = errors.New("database is disabled in the config (database.enabled = false)")

var snapshotsFlags struct {
	limit int
}

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Inspect snapshots stored in PostgreSQL",
}

var snapshotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the newest snapshots",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotsList,
}

var snapshotsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored snapshot as YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotsShow,
}

var snapshotsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotsDelete,
}

func init() {
	snapshotsListCmd.Flags().IntVar(&snapshotsFlags.limit, "limit", 20, "maximum number of snapshots to list")

	snapshotsCmd.AddCommand(snapshotsListCmd)
	snapshotsCmd.AddCommand(snapshotsShowCmd)
	snapshotsCmd.AddCommand(snapshotsDeleteCmd)
}

func runSnapshotsList(cmd *cobra.Command, args []string) error {
	repo, closeDB, err := openSnapshotRepo(cmd.Context())
	if err != nil {
		return err
	}
	defer closeDB()

	rows, err := repo.List(cmd.Context(), snapshotsFlags.limit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("no snapshots")
		return nil
	}
	fmt.Printf("%-36s  %-20s  %-19s  %6s  %8s  %5s\n", "ID", "NAME", "CREATED", "NODES", "SEGMENTS", "ROADS")
	for _, r := range rows {
		fmt.Printf("%-36s  %-20s  %-19s  %6d  %8d  %5d\n",
			r.ID, r.Name, r.CreatedAt.Local().Format(time.DateTime), r.NodeCount, r.SegmentCount, r.RoadCount)
	}
	return nil
}

func runSnapshotsShow(cmd *cobra.Command, args []string) error {
	repo, closeDB, err := openSnapshotRepo(cmd.Context())
	if err != nil {
		return err
	}
	defer closeDB()

	s, err := repo.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return s.WriteYAML(os.Stdout)
}

func runSnapshotsDelete(cmd *cobra.Command, args []string) error {
	repo, closeDB, err := openSnapshotRepo(cmd.Context())
	if err != nil {
		return err
	}
	defer closeDB()

	if err := repo.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted snapshot %s\n", args[0])
	return nil
}

func openSnapshotRepo(ctx context.Context) (*persist.SnapshotRepo, func(), error) {
	if !cfg.Database.Enabled {
		return nil, nil, errDatabaseDisabled
	}
	db, err := openDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	return persist.NewSnapshotRepo(db), db.Close, nil
}
