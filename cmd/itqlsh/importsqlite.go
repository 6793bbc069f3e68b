package main

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/spf13/cobra"

	"github.com/liliang-cn/itqlsh/pkg/vector"
)

var (
	sqlitePath  string
	sqliteQuery string
	sqliteBatch int
)

var importSQLiteCmd = &cobra.Command{
	Use:   "import-sqlite",
	Short: "ingest vectors from a SQLite query into a file-backed source directory",
	Long: "Runs --query against --sqlite-db, expecting one row per vector and a single " +
		"comma-separated-float column, and writes the result as a file-backed Source at the --data directory.",
	RunE: runImportSQLite,
}

func init() {
	importSQLiteCmd.Flags().StringVar(&sqlitePath, "sqlite-db", "", "path to the source SQLite database")
	importSQLiteCmd.Flags().StringVar(&sqliteQuery, "query", "", "SELECT statement returning one comma-separated vector column per row")
	importSQLiteCmd.Flags().IntVar(&sqliteBatch, "batch", 10000, "rows per output shard")
	importSQLiteCmd.MarkFlagRequired("sqlite-db")
	importSQLiteCmd.MarkFlagRequired("query")
}

func runImportSQLite(cmd *cobra.Command, args []string) error {
	if dataDir == "" {
		return fmt.Errorf("--data is required")
	}

	db, err := sql.Open("sqlite", sqlitePath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", sqlitePath, err)
	}
	defer db.Close()

	rows, err := db.Query(sqliteQuery)
	if err != nil {
		return fmt.Errorf("running import query: %w", err)
	}
	defer rows.Close()

	var vectors [][]float32
	dim := 0
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return err
		}
		v, err := parseVector(raw)
		if err != nil {
			return err
		}
		if dim == 0 {
			dim = len(v)
		} else if len(v) != dim {
			return fmt.Errorf("import-sqlite: row %d has %d components, expected %d", len(vectors), len(v), dim)
		}
		vectors = append(vectors, v)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	flat := make([]float32, 0, len(vectors)*dim)
	for _, v := range vectors {
		flat = append(flat, v...)
	}
	src, err := vector.NewMatrixSource(dim, flat)
	if err != nil {
		return err
	}

	if err := vector.WriteFileSource(dataDir, src, sqliteBatch); err != nil {
		return err
	}

	fmt.Printf("imported %d vectors (dim=%d) into %s\n", src.Len(), dim, dataDir)
	return nil
}
