package power

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"performance": ModePerformance,
		"PERF":        ModePerformance,
		"balanced":    ModeBalanced,
		" balance ":   ModeBalanced,
		"power-saver": ModePowerSaver,
		"saver":       ModePowerSaver,
		"powersave":   ModePowerSaver,
	}
	for in, want := range cases {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMode("turbo")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestModeStringRoundTrip(t *testing.T) {
	for _, m := range Modes() {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
		assert.True(t, m.Valid())
	}
	assert.False(t, ModeUnknown.Valid())
	assert.Equal(t, "unknown", ModeUnknown.String())
}

func TestModeFromProfile(t *testing.T) {
	assert.Equal(t, ModePowerSaver, ModeFromProfile("power-saver\n"))
	assert.Equal(t, ModePerformance, ModeFromProfile("performance"))
	assert.Equal(t, ModeBalanced, ModeFromProfile(" balanced "))
	assert.Equal(t, ModeUnknown, ModeFromProfile("something-else"))
}

func TestModeFromGovernor(t *testing.T) {
	assert.Equal(t, ModePerformance, ModeFromGovernor("performance"))
	assert.Equal(t, ModePowerSaver, ModeFromGovernor("powersave"))
	assert.Equal(t, ModeBalanced, ModeFromGovernor("schedutil"))
	assert.Equal(t, ModeBalanced, ModeFromGovernor("ondemand"))
	assert.Equal(t, ModeUnknown, ModeFromGovernor(""))
}

func TestGovernorFor(t *testing.T) {
	// No list: fixed table.
	assert.Equal(t, "performance", GovernorFor(ModePerformance, nil))
	assert.Equal(t, "schedutil", GovernorFor(ModeBalanced, nil))
	assert.Equal(t, "powersave", GovernorFor(ModePowerSaver, nil))

	// intel_pstate only offers performance and powersave.
	pstate := []string{"performance", "powersave"}
	assert.Equal(t, "powersave", GovernorFor(ModeBalanced, pstate))

	acpi := []string{"conservative", "ondemand", "userspace", "powersave", "performance"}
	assert.Equal(t, "ondemand", GovernorFor(ModeBalanced, acpi))

	// Nothing matches: fall back to the primary choice.
	assert.Equal(t, "schedutil", GovernorFor(ModeBalanced, []string{"userspace"}))
	assert.Equal(t, "", GovernorFor(ModeUnknown, pstate))
}

func TestParseMethod(t *testing.T) {
	m, auto, err := ParseMethod("")
	require.NoError(t, err)
	assert.True(t, auto)
	assert.Equal(t, MethodNone, m)

	m, auto, err = ParseMethod("cpupower")
	require.NoError(t, err)
	assert.False(t, auto)
	assert.Equal(t, MethodCPUPower, m)

	m, _, err = ParseMethod("sysfs")
	require.NoError(t, err)
	assert.Equal(t, MethodSysfs, m)

	_, _, err = ParseMethod("tlp")
	assert.Error(t, err)
}
