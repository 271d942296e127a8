package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAboveTarget(t *testing.T) {
	tg := Above(70000)
	require.NoError(t, tg.Validate())
	require.True(t, tg.Evaluate(70000.01))
	require.True(t, tg.Evaluate(70000))
	require.False(t, tg.Evaluate(69999.99))
}

func TestRangeTargetInclusive(t *testing.T) {
	tg := Range(60000, 70000)
	require.NoError(t, tg.Validate())
	require.True(t, tg.Evaluate(60000))
	require.True(t, tg.Evaluate(70000))
	require.True(t, tg.Evaluate(65000))
	require.False(t, tg.Evaluate(59999.99))
	require.False(t, tg.Evaluate(70000.01))
}

func TestRangeTargetRejectsInvertedBounds(t *testing.T) {
	tg := Range(70000, 60000)
	require.Error(t, tg.Validate())
}
