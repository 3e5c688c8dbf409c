package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/pulse/internal/output"
	"github.com/Aman-CERP/pulse/internal/store"
)

type indexJSON struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	Documents uint64    `json:"documents"`
	Latest    bool      `json:"latest"`
	Error     string    `json:"error,omitempty"`
}

func newIndexesCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "indexes",
		Short: "List indexes under the index root",
		Long:  `List the index directories under the index root, newest first, with their document counts.`,
		Args:  cobra.NoArgs,
		RunE: a.wrap(func(cmd *cobra.Command, _ []string) error {
			rows, err := collectIndexes(a.cfg.Index.Root)
			if err != nil {
				return err
			}

			out := output.New(cmd.OutOrStdout())
			if !jsonOutput {
				return out.Indexes(rows, time.Now())
			}

			list := make([]indexJSON, 0, len(rows))
			for _, r := range rows {
				item := indexJSON{
					Name:      r.Info.Name,
					Path:      r.Info.Path,
					CreatedAt: r.Info.CreatedAt,
					Documents: r.Documents,
					Latest:    r.Latest,
				}
				if r.Err != nil {
					item.Error = r.Err.Error()
				}
				list = append(list, item)
			}
			return out.JSON(list)
		}),
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// collectIndexes lists the indexes and reads each one's document count.
func collectIndexes(root string) ([]output.IndexRow, error) {
	infos, err := store.ListIndexes(root)
	if err != nil {
		return nil, err
	}

	rows := make([]output.IndexRow, 0, len(infos))
	for i, info := range infos {
		row := output.IndexRow{Info: info, Latest: i == 0}
		s, err := store.OpenSearcher(info.Path)
		if err != nil {
			row.Err = err
		} else {
			row.Documents, row.Err = s.DocCount()
			_ = s.Close()
		}
		rows = append(rows, row)
	}
	return rows, nil
}
