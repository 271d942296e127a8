package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bcdannyboy/fairbtc/fairbtcerr"
)

func validHeston() HestonParams {
	return HestonParams{Kappa: 3, Theta: 0.04, Xi: 0.3, Rho: -0.5}
}

func TestHestonParamsValidate(t *testing.T) {
	require.NoError(t, validHeston().Validate())

	bad := validHeston()
	bad.Kappa = 0
	require.True(t, errors.Is(bad.Validate(), fairbtcerr.InvalidInput))

	bad = validHeston()
	bad.Rho = 1.5
	require.True(t, errors.Is(bad.Validate(), fairbtcerr.InvalidInput))
}

func TestJumpParamsValidateKou(t *testing.T) {
	j := JumpParams{Lambda: 1, Kind: JumpKou, P: 0.5, Eta1: 10, Eta2: 5}
	require.NoError(t, j.Validate())

	j.Eta1 = 0
	require.True(t, errors.Is(j.Validate(), fairbtcerr.InvalidInput))
}

func TestHMMValidateRowsSumToOne(t *testing.T) {
	h := HMM{P: [2][2]float64{{0.9, 0.1}, {0.2, 0.8}}, Pi0: [2]float64{0.5, 0.5}}
	require.NoError(t, h.Validate())

	bad := h
	bad.P[0] = [2]float64{0.9, 0.2}
	require.True(t, errors.Is(bad.Validate(), fairbtcerr.InvalidInput))
}

func TestSimInputsSteps(t *testing.T) {
	s := SimInputs{S0: 65000, T: 24, Dt: 1}
	require.Equal(t, 24, s.Steps())

	s.Dt = 0.5
	require.Equal(t, 48, s.Steps())
}

func TestSimInputsValidateRejectsNonPositiveS0(t *testing.T) {
	s := SimInputs{
		S0: 0, T: 24, Dt: 1,
		Regimes: Regimes{Bull: RegimeParams{Heston: validHeston()}, Bear: RegimeParams{Heston: validHeston()}},
		HMM:     HMM{P: [2][2]float64{{1, 0}, {0, 1}}, Pi0: [2]float64{1, 0}},
	}
	require.True(t, errors.Is(s.Validate(), fairbtcerr.InvalidInput))
}
