package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/threatfield/core"
)

func TestLoadCatalog(t *testing.T) {
	c, err := Load("testdata/units.yaml")
	require.NoError(t, err)
	require.Equal(t, 9, c.Len())

	d, ok := c.Lookup("destroyer")
	require.True(t, ok)
	require.Equal(t, core.FalloffGradient, d.Falloff)
	require.Equal(t, core.MoveShip, d.Move)
	require.Equal(t, 650.0, d.WaterRange)
	require.Equal(t, 400.0, d.WeaponRange(core.RangeAir))
	require.Zero(t, d.WeaponRange(core.RangeDetect))

	shield, ok := c.Lookup("shield_bot")
	require.True(t, ok)
	require.True(t, shield.HasShield())

	scout, ok := c.Lookup("radar_scout")
	require.True(t, ok)
	require.True(t, scout.Peaceful())
	require.Equal(t, 600.0, scout.DetectRange)

	_, ok = c.Lookup("warp_gate")
	require.False(t, ok)
}

func TestBuiltinMatchesTestdata(t *testing.T) {
	b := Builtin()
	c, err := Load("testdata/units.yaml")
	require.NoError(t, err)
	require.Equal(t, c.IDs(), b.IDs())
}

func TestParseRejectsSchemaViolation(t *testing.T) {
	_, err := Load("testdata/bad_falloff.yaml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "schema")
}

func TestParseRejectsUnknownField(t *testing.T) {
	_, err := Parse([]byte("units:\n  - id: x\n    dps: 3\n"))
	require.Error(t, err)
}

func TestParseRejectsNegativeRange(t *testing.T) {
	_, err := Parse([]byte("units:\n  - id: x\n    range: {land: -10}\n"))
	require.Error(t, err)
}

func TestDuplicateDefinition(t *testing.T) {
	_, err := Load("testdata/duplicate.yaml")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDuplicateDef))
}

func TestDefVariant(t *testing.T) {
	var zero Def
	require.False(t, zero.IsKnown())

	k := Known(UnitDef{ID: "tank", Damage: 10})
	require.True(t, k.IsKnown())
	require.Equal(t, "tank", k.Stats().ID)

	u := Unknown(UnknownFallback(800, 20))
	require.False(t, u.IsKnown())
	stats := u.Stats()
	require.Equal(t, 20.0, stats.Damage)
	for _, r := range []core.RangeKind{core.RangeAir, core.RangeLand, core.RangeWater} {
		require.Equal(t, 800.0, stats.WeaponRange(r))
	}
	require.False(t, stats.Peaceful())
}
