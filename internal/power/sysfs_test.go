package power

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSysFS_CPUsSortedAndFiltered(t *testing.T) {
	fs := setupCPUs(t, map[string]map[string]string{
		"cpu10": {"governor": "schedutil"},
		"cpu2":  {"governor": "schedutil"},
		"cpu0":  {"governor": "schedutil"},
	})
	ids, err := fs.CPUs()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 10}, ids)
}

func TestSysFS_GovernorReadWrite(t *testing.T) {
	fs := setupCPUs(t, map[string]map[string]string{
		"cpu0": {"governor": "schedutil", "available_governors": "performance schedutil powersave", "cur_freq": "2400000"},
	})
	assert.True(t, fs.HasCPUFreq())

	gov, err := fs.Governor(0)
	require.NoError(t, err)
	assert.Equal(t, "schedutil", gov)

	avail, err := fs.AvailableGovernors(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"performance", "schedutil", "powersave"}, avail)

	khz, err := fs.CurFreqKHz(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(2400000), khz)

	require.NoError(t, fs.SetGovernor(0, "performance"))
	gov, err = fs.Governor(0)
	require.NoError(t, err)
	assert.Equal(t, "performance", gov)
}

func TestSysFS_SetGovernorDoesNotCreate(t *testing.T) {
	fs := setupCPUs(t, map[string]map[string]string{"cpu0": {}})
	err := fs.SetGovernor(0, "performance")
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.False(t, fs.HasCPUFreq())
}

func TestDetect(t *testing.T) {
	fs := setupCPUs(t, map[string]map[string]string{"cpu0": {"governor": "schedutil"}})
	empty := setupCPUs(t, map[string]map[string]string{"cpu0": {}})

	assert.Equal(t, MethodPPD, Detect(lookPathFor(PowerProfilesCtl, CPUPower), fs))
	assert.Equal(t, MethodCPUPower, Detect(lookPathFor(CPUPower), fs))
	assert.Equal(t, MethodSysfs, Detect(lookPathFor(), fs))
	assert.Equal(t, MethodNone, Detect(lookPathFor(), empty))
	assert.Equal(t, MethodNone, Detect(lookPathFor(), nil))
}
