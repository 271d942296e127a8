package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bcdannyboy/fairbtc/models"
)

func TestCachePutGetRoundTrip(t *testing.T) {
	c := New(10, time.Minute)
	key := Fingerprint("k1")
	result := models.SimResult{P: 0.42}

	_, ok := c.Get(key)
	require.False(t, ok)

	c.Put(key, result)
	got, ok := c.Get(key)
	require.True(t, ok)
	require.Equal(t, 0.42, got.P)
}

func TestCacheEvictsOldestOnCapacity(t *testing.T) {
	c := New(2, time.Minute)
	c.Put("a", models.SimResult{P: 1})
	c.Put("b", models.SimResult{P: 2})
	c.Put("c", models.SimResult{P: 3})

	_, ok := c.Get("a")
	require.False(t, ok, "oldest inserted entry must be evicted first")

	_, ok = c.Get("b")
	require.True(t, ok)
	_, ok = c.Get("c")
	require.True(t, ok)
	require.Equal(t, 2, c.Len())
}

func TestCacheExpiresOnTouch(t *testing.T) {
	c := New(10, time.Nanosecond)
	c.Put("a", models.SimResult{P: 1})
	time.Sleep(time.Millisecond)

	_, ok := c.Get("a")
	require.False(t, ok, "expired entry must not be returned")
	require.Equal(t, 0, c.Len())
}

func TestNewFingerprintStableForEquivalentRequests(t *testing.T) {
	target := models.Above(70000)
	// 24.02 and 24.04 both round(*10)/10 to 24.0, so they land in the same
	// 0.1h bucket and must collapse to the same fingerprint.
	fp1 := NewFingerprint("BTC", 65000.3, 24.02, target, models.SensitivityOverrides{})
	fp2 := NewFingerprint("BTC", 65000.4, 24.04, target, models.SensitivityOverrides{})
	require.Equal(t, fp1, fp2, "spot rounded to $1 and horizon to 0.1h should collapse")
}

func TestNewFingerprintDiffersByTarget(t *testing.T) {
	fp1 := NewFingerprint("BTC", 65000, 24, models.Above(70000), models.SensitivityOverrides{})
	fp2 := NewFingerprint("BTC", 65000, 24, models.Above(75000), models.SensitivityOverrides{})
	require.NotEqual(t, fp1, fp2)
}

func TestNewFingerprintDiffersByOverrides(t *testing.T) {
	target := models.Above(70000)
	fp1 := NewFingerprint("BTC", 65000, 24, target, models.SensitivityOverrides{})
	fp2 := NewFingerprint("BTC", 65000, 24, target, models.SensitivityOverrides{VolMult: 1.1})
	require.NotEqual(t, fp1, fp2)
}
