package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	itqlsh "github.com/liliang-cn/itqlsh"
	"github.com/liliang-cn/itqlsh/pkg/itq"
	"github.com/liliang-cn/itqlsh/pkg/vector"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "train and hash an index from a file-backed vector source",
	RunE:  runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	if dataDir == "" || indexDir == "" {
		return fmt.Errorf("--data and --index are required")
	}

	logger := newLogger().With("build_id", uuid.NewString())

	src, err := vector.OpenFileSource(dataDir)
	if err != nil {
		return err
	}
	defer src.Close()

	dim := paramD
	if dim == 0 {
		dim = src.Dim()
	}

	params := itq.Params{L: paramL, D: dim, N: paramN, S: paramS, I: paramI, Seed: paramSeed}
	logger.Info("training", "params", params.String(), "dataset_size", src.Len())

	idx, err := itq.BuildIndex(logger, src, params)
	if err != nil {
		return err
	}

	for i := 0; i < src.Len(); i++ {
		v, err := src.At(i)
		if err != nil {
			return err
		}
		idx.Insert(i, v)
	}
	logger.Info("hashing done", "hashed_size", idx.HashedSize())

	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		return itqlsh.Wrap(itqlsh.KindIO, "build", err)
	}
	f, err := os.Create(filepath.Join(indexDir, "hash.param"))
	if err != nil {
		return itqlsh.Wrap(itqlsh.KindIO, "build", err)
	}
	defer f.Close()
	if err := itq.WriteParam(f, idx); err != nil {
		return err
	}

	logger.Info("build complete", "path", indexDir)
	return nil
}
