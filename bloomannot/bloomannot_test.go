package bloomannot_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/kmerannot/annotation"
	"github.com/katalvlaran/kmerannot/bloomannot"
	"github.com/katalvlaran/kmerannot/dbg"
)

func buildGraph(t *testing.T, k int, seq string) *dbg.HashDBG {
	t.Helper()
	d := dbg.NewHashDBG(k)
	padded := d.Transform(d.Encode(seq), false)
	for i := 0; i+k+1 <= len(padded); i++ {
		_, err := d.AddEdge(padded[i : i+k+1])
		require.NoError(t, err)
	}
	d.Freeze()

	return d
}

func TestInsertedKmerIsRawMember(t *testing.T) {
	d := buildGraph(t, 3, "ACGTAC")
	a, err := bloomannot.NewFromFPP(d, 0.01, 42)
	require.NoError(t, err)
	col := a.AddColumn(uint64(d.NumEdges()))
	require.NoError(t, a.AddSequence("ACGTAC", col))

	e, err := d.MapKmer("ACGT")
	require.NoError(t, err)
	bits, err := a.GetAnnotation(e)
	require.NoError(t, err)
	require.True(t, bits[0])
}

func TestNoFalseNegativesAcrossEdges(t *testing.T) {
	d := buildGraph(t, 3, "ACGTACGTAC")
	a, err := bloomannot.NewFromFPP(d, 0.01, 7)
	require.NoError(t, err)
	col := a.AddColumn(uint64(d.NumEdges()))
	require.NoError(t, a.AddSequence("ACGTACGTAC", col))

	for e := d.FirstEdge(); e <= d.LastEdge(); e++ {
		bits, err := a.GetAnnotation(e)
		require.NoError(t, err)
		require.True(t, bits[col], "edge %d must never be a false negative", e)
	}
}

func TestCorrectedAnnotationNeverExceedsRaw(t *testing.T) {
	// Correction only AND-folds neighbour annotations into the raw
	// vector, so it can never set a bit that raw lacks.
	d := buildGraph(t, 3, "ACGTACGTACGT")
	a, err := bloomannot.NewFromFPP(d, 0.3, 11)
	require.NoError(t, err)
	col := a.AddColumn(uint64(d.NumEdges()))
	require.NoError(t, a.AddSequence("ACGTACGTACGT", col))

	annotator, err := bloomannot.NewAnnotator(d, a)
	require.NoError(t, err)

	e, err := d.MapKmer("ACGT")
	require.NoError(t, err)
	raw, err := a.GetAnnotation(e)
	require.NoError(t, err)
	corrected, err := annotator.GetAnnotationCorrected(e, true, 0)
	require.NoError(t, err)

	// corrected is the AND of raw with zero or more neighbours: it can
	// only ever clear bits that were set in raw, never set new ones.
	for c := range raw {
		if corrected[c] {
			require.True(t, raw[c])
		}
	}
}

func TestGetAnnotationCorrectedStopsAtDummyEdge(t *testing.T) {
	d := buildGraph(t, 3, "AC")
	a, err := bloomannot.NewFromFPP(d, 0.01, 3)
	require.NoError(t, err)
	col := a.AddColumn(uint64(d.NumEdges()))
	require.NoError(t, a.AddSequence("AC", col))

	annotator, err := bloomannot.NewAnnotator(d, a)
	require.NoError(t, err)

	// The graph's first edge sits inside the leading dummy padding, so
	// any backward walk from it must terminate at a dummy neighbour
	// rather than run unbounded.
	first := d.FirstEdge()
	_, err = annotator.GetAnnotationCorrected(first, true, 0)
	require.NoError(t, err)
}

func TestTestFPAll_NoMismatchesWhenBloomAgreesWithExact(t *testing.T) {
	d := buildGraph(t, 3, "ACGTACGT")

	exact, err := annotation.New(d, nil)
	require.NoError(t, err)
	exCol := exact.AddColumn()
	require.NoError(t, exact.AddSequence("ACGTACGT", exCol, false))

	bloom, err := bloomannot.NewFromFPP(d, 1e-6, 99)
	require.NoError(t, err)
	blCol := bloom.AddColumn(uint64(d.NumEdges()))
	require.NoError(t, bloom.AddSequence("ACGTACGT", blCol))

	annotator, err := bloomannot.NewAnnotator(d, bloom)
	require.NoError(t, err)

	mismatches, compared, err := annotator.TestFPAll(exact)
	require.NoError(t, err)
	require.Zero(t, mismatches)
	require.Equal(t, d.NumEdges(), compared)
}

func TestApproxFalsePositiveRateIncreasesWithLoad(t *testing.T) {
	d := buildGraph(t, 3, "ACGTACGTACGTACGT")
	a, err := bloomannot.NewFromFPP(d, 0.5, 5)
	require.NoError(t, err)
	col := a.AddColumn(1)
	rateBefore, err := a.ApproxFalsePositiveRate(col)
	require.NoError(t, err)
	require.NoError(t, a.AddSequence("ACGTACGTACGTACGT", col))
	rateAfter, err := a.ApproxFalsePositiveRate(col)
	require.NoError(t, err)
	require.GreaterOrEqual(t, rateAfter, rateBefore)
}

func TestSerializeLoadRoundTrip(t *testing.T) {
	d := buildGraph(t, 3, "ACGTACGTAC")
	a, err := bloomannot.NewFromFPP(d, 0.02, 123)
	require.NoError(t, err)
	col := a.AddColumn(uint64(d.NumEdges()))
	require.NoError(t, a.AddSequence("ACGTACGTAC", col))

	var buf bytes.Buffer
	require.NoError(t, a.Serialize(&buf))

	loaded, err := bloomannot.Load(&buf, d)
	require.NoError(t, err)
	require.Equal(t, a.NumColumns(), loaded.NumColumns())

	for e := d.FirstEdge(); e <= d.LastEdge(); e++ {
		want, err := a.GetAnnotation(e)
		require.NoError(t, err)
		got, err := loaded.GetAnnotation(e)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestColumnOutOfRange(t *testing.T) {
	d := buildGraph(t, 3, "ACGT")
	a, err := bloomannot.NewFromFPP(d, 0.01, 1)
	require.NoError(t, err)
	err = a.AddSequence("ACGT", 0)
	require.ErrorIs(t, err, bloomannot.ErrColumnOutOfRange)
}

func TestNewAnnotatorRejectsNils(t *testing.T) {
	d := buildGraph(t, 3, "ACGT")
	a, err := bloomannot.NewFromFPP(d, 0.01, 1)
	require.NoError(t, err)

	_, err = bloomannot.NewAnnotator(nil, a)
	require.ErrorIs(t, err, bloomannot.ErrNilDBG)

	_, err = bloomannot.NewAnnotator(d, nil)
	require.ErrorIs(t, err, bloomannot.ErrNilAnnotation)
}
