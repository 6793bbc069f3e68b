package itq

import (
	"fmt"
	"math/rand"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	itqlsh "github.com/liliang-cn/itqlsh"
	"github.com/liliang-cn/itqlsh/internal/encoding"
	"github.com/liliang-cn/itqlsh/pkg/vector"
)

// Projection is the learned PCA step for one hash table: N row-major
// blocks of D weights, block i being the i-th principal component
// (spec.md §4.3 step 1, §6 on-disk layout).
type Projection struct {
	D, N int
	Data []float32 // len == N*D, block i at Data[i*D:(i+1)*D]
}

// Rotation is the learned ITQ rotation for one hash table: N row-major
// blocks of N weights, block i being column i of the rotation matrix R
// (spec.md §4.3 steps 4-8).
type Rotation struct {
	N    int
	Data []float32 // len == N*N, block i at Data[i*N:(i+1)*N]
}

// pcBlock returns a view of the i-th principal component weight vector.
func (p Projection) pcBlock(i int) []float32 { return p.Data[i*p.D : (i+1)*p.D] }

// rotBlock returns a view of column i of the rotation matrix.
func (r Rotation) rotBlock(i int) []float32 { return r.Data[i*r.N : (i+1)*r.N] }

// Train learns a Projection and Rotation per hash table (spec.md §4.3),
// one goroutine per table via errgroup since training reads are
// independent and the source is safe for concurrent At calls.
func Train(logger itqlsh.Logger, data vector.Source, params Params) ([]Projection, []Rotation, error) {
	if err := params.Validate(data.Len()); err != nil {
		return nil, nil, err
	}
	if data.Dim() != params.D {
		return nil, nil, itqlsh.Wrap(itqlsh.KindParam, "train",
			fmt.Errorf("%w: source dim %d, params D %d", itqlsh.ErrDimensionMismatch, data.Dim(), params.D))
	}
	if logger == nil {
		logger = itqlsh.NopLogger()
	}

	projs := make([]Projection, params.L)
	rots := make([]Rotation, params.L)

	var g errgroup.Group
	for k := 0; k < params.L; k++ {
		k := k
		g.Go(func() error {
			tableSeed := params.Seed*1000003 + int64(k)
			tlog := logger.With("table", k, "seed", tableSeed)
			tlog.Info("training table start")
			p, r, err := trainTable(data, params, tableSeed)
			if err != nil {
				return fmt.Errorf("table %d: %w", k, err)
			}
			projs[k] = p
			rots[k] = r
			tlog.Info("training table done")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, itqlsh.Wrap(itqlsh.KindNumeric, "train", err)
	}
	return projs, rots, nil
}

// trainTable runs PCA followed by I rounds of ITQ rotation refinement
// for a single hash table, following original_source/lsh/itqlsh.h's
// train() method: the covariance and eigendecomposition use the
// centered sample, but the projection V = X*P that seeds the rotation
// loop uses the uncentered sample, matching the original exactly.
func trainTable(data vector.Source, params Params, seed int64) (Projection, Rotation, error) {
	rng := rand.New(rand.NewSource(seed))
	S, D, N := params.S, params.D, params.N

	keys := sampleDistinct(rng, data.Len(), S)

	X := mat.NewDense(S, D, nil)
	for i, key := range keys {
		v, err := data.At(key)
		if err != nil {
			return Projection{}, Rotation{}, fmt.Errorf("sampling key %d: %w", key, err)
		}
		for j := 0; j < D; j++ {
			X.Set(i, j, float64(v[j]))
		}
	}

	mean := make([]float64, D)
	for j := 0; j < D; j++ {
		var sum float64
		for i := 0; i < S; i++ {
			sum += X.At(i, j)
		}
		mean[j] = sum / float64(S)
	}

	centered := mat.NewDense(S, D, nil)
	for i := 0; i < S; i++ {
		for j := 0; j < D; j++ {
			centered.Set(i, j, X.At(i, j)-mean[j])
		}
	}

	var cov mat.Dense
	cov.Mul(centered.T(), centered)
	cov.Scale(1.0/float64(S-1), &cov)

	symCov := mat.NewSymDense(D, nil)
	for i := 0; i < D; i++ {
		for j := i; j < D; j++ {
			symCov.SetSym(i, j, (cov.At(i, j)+cov.At(j, i))/2)
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(symCov, true) {
		return Projection{}, Rotation{}, fmt.Errorf("%w: covariance eigendecomposition failed to converge", itqlsh.ErrNonFinite)
	}
	var evec mat.Dense
	eig.VectorsTo(&evec)

	// gonum orders eigenvalues ascending; the top-N components are the
	// rightmost N columns.
	P := mat.NewDense(D, N, nil)
	for i := 0; i < N; i++ {
		srcCol := D - N + i
		for j := 0; j < D; j++ {
			P.Set(j, i, evec.At(j, srcCol))
		}
	}

	var V mat.Dense
	V.Mul(X, P)

	G := mat.NewDense(N, N, nil)
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			G.Set(i, j, rng.NormFloat64())
		}
	}
	var svdInit mat.SVD
	if !svdInit.Factorize(G, mat.SVDThin) {
		return Projection{}, Rotation{}, fmt.Errorf("%w: initial rotation SVD failed to converge", itqlsh.ErrNonFinite)
	}
	R := mat.NewDense(N, N, nil)
	svdInit.UTo(R)

	B := mat.NewDense(S, N, nil)
	for iter := 0; iter < params.I; iter++ {
		var Z mat.Dense
		Z.Mul(&V, R)
		for i := 0; i < S; i++ {
			for j := 0; j < N; j++ {
				if Z.At(i, j) > 0 {
					B.Set(i, j, 1)
				} else {
					B.Set(i, j, -1)
				}
			}
		}

		var M mat.Dense
		M.Mul(B.T(), &V)

		var svd mat.SVD
		if !svd.Factorize(&M, mat.SVDThin) {
			return Projection{}, Rotation{}, fmt.Errorf("%w: rotation refinement SVD failed to converge at iteration %d", itqlsh.ErrNonFinite, iter)
		}
		var U, Vt mat.Dense
		svd.UTo(&U)
		svd.VTo(&Vt)
		R.Mul(&Vt, U.T())
	}

	projData := make([]float32, N*D)
	for i := 0; i < N; i++ {
		for j := 0; j < D; j++ {
			projData[i*D+j] = float32(P.At(j, i))
		}
	}
	rotData := make([]float32, N*N)
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			rotData[i*N+j] = float32(R.At(j, i))
		}
	}
	if encoding.HasNonFinite(projData) || encoding.HasNonFinite(rotData) {
		return Projection{}, Rotation{}, itqlsh.ErrNonFinite
	}

	return Projection{D: D, N: N, Data: projData}, Rotation{N: N, Data: rotData}, nil
}

// sampleDistinct draws s distinct keys from [0,n) and returns them
// sorted ascending, mirroring original_source/lsh/itqlsh.h's rejection
// sampling over std::vector::find.
func sampleDistinct(rng *rand.Rand, n, s int) []int {
	seen := make(map[int]bool, s)
	keys := make([]int, 0, s)
	for len(keys) < s {
		c := rng.Intn(n)
		if !seen[c] {
			seen[c] = true
			keys = append(keys, c)
		}
	}
	sort.Ints(keys)
	return keys
}
