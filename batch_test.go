package poseidoncrh

import (
	"context"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/vocdoni/poseidoncrh/params"
)

func batchInputs(n int) [][]byte {
	inputs := make([][]byte, n)
	for i := range inputs {
		inputs[i] = FromFieldElements(fr.NewElement(uint64(i)), fr.NewElement(uint64(i*i)))
	}
	return inputs
}

func TestEvaluateBatchKeepsOrder(t *testing.T) {
	c, p := mustPreset(t, 3)
	inputs := batchInputs(64)

	out, err := EvaluateBatch[*params.Parameters](context.Background(), c, p, inputs)
	require.NoError(t, err)
	require.Len(t, out, len(inputs))
	for i := range inputs {
		want, err := c.Evaluate(p, inputs[i])
		require.NoError(t, err)
		require.True(t, out[i].Equal(&want), "input %d", i)
	}

	ids, err := EvaluateBatch[struct{}](context.Background(), IdentityCRH{}, struct{}{}, [][]byte{FromFieldElements(fr.NewElement(7))})
	require.NoError(t, err)
	require.Equal(t, fr.NewElement(7), ids[0])
}

func TestEvaluateBatchFails(t *testing.T) {
	c, p := mustPreset(t, 3)

	inputs := batchInputs(16)
	inputs[9] = make([]byte, 4*FieldBytes)
	_, err := EvaluateBatch[*params.Parameters](context.Background(), c, p, inputs)
	require.ErrorIs(t, err, ErrIncorrectInputLength)
	require.ErrorContains(t, err, "input 9")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = EvaluateBatch[*params.Parameters](ctx, c, p, batchInputs(4))
	require.ErrorIs(t, err, context.Canceled)

	out, err := EvaluateBatch[*params.Parameters](context.Background(), c, p, nil)
	require.NoError(t, err)
	require.Empty(t, out)
}
