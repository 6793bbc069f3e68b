package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/liliang-cn/itqlsh/pkg/itq"
	"github.com/liliang-cn/itqlsh/pkg/metric"
	"github.com/liliang-cn/itqlsh/pkg/shardstore"
	"github.com/liliang-cn/itqlsh/pkg/topk"
	"github.com/liliang-cn/itqlsh/pkg/vector"
)

var fromShards bool

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "run a single top-K query against a built index",
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().String("vector", "", "comma-separated query vector")
	queryCmd.MarkFlagRequired("vector")
}

func runQuery(cmd *cobra.Command, args []string) error {
	if dataDir == "" || indexDir == "" {
		return fmt.Errorf("--data and --index are required")
	}
	vectorStr, _ := cmd.Flags().GetString("vector")
	query, err := parseVector(vectorStr)
	if err != nil {
		return err
	}

	logger := newLogger()
	var results []topk.Result

	if fromShards {
		store, err := shardstore.Open(indexDir, maxMemoryMiB, logger)
		if err != nil {
			return err
		}
		results, err = store.Query(query, queryK, queryR, metric.SquaredL2)
		if err != nil {
			return err
		}
	} else {
		pf, err := os.Open(filepath.Join(indexDir, "hash.param"))
		if err != nil {
			return err
		}
		idx, err := itq.ReadParam(pf)
		pf.Close()
		if err != nil {
			return err
		}

		src, err := vector.OpenFileSource(dataDir)
		if err != nil {
			return err
		}
		defer src.Close()

		results, err = idx.Query(query, queryK, queryR, metric.SquaredL2, src)
		if err != nil {
			return err
		}
	}

	for _, r := range results {
		fmt.Printf("%d\t%f\n", r.Key, r.Distance)
	}
	return nil
}

func parseVector(s string) ([]float32, error) {
	parts := strings.Split(s, ",")
	out := make([]float32, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vector component %q: %w", p, err)
		}
		out[i] = float32(v)
	}
	return out, nil
}
