package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/liliang-cn/itqlsh/pkg/itq"
	"github.com/liliang-cn/itqlsh/pkg/shardstore"
	"github.com/liliang-cn/itqlsh/pkg/vector"
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "split a built index's buckets into shard files for out-of-core query",
	RunE:  runSave,
}

func runSave(cmd *cobra.Command, args []string) error {
	if dataDir == "" || indexDir == "" {
		return fmt.Errorf("--data and --index are required")
	}
	logger := newLogger()

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

	// getHashSavePath-style directory naming, kept for operational
	// familiarity with the shards this index would have produced
	// upstream.
	shardRoot := filepath.Join(indexDir,
		fmt.Sprintf("ITQ_L-%d_N-%d_S-%d_I-%d", idx.Params.L, idx.Params.N, idx.Params.S, paramI))

	logger.Info("splitting shards", "root", shardRoot, "single_max_mib", singleMaxMiB)
	pos, err := shardstore.WriteShards(shardRoot, idx, src, singleMaxMiB)
	if err != nil {
		return err
	}
	if err := shardstore.Save(shardRoot, idx, pos); err != nil {
		return err
	}

	logger.Info("save complete", "fit_split_bits", pos.FitSplitBits)
	return nil
}
