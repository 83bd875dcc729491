package simtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdd_MixedDimensionedUnits(t *testing.T) {
	sum, err := Add(New(2, Minutes), New(30, Seconds))
	require.NoError(t, err)
	require.InDelta(t, 2.5, sum.Value, 1e-9)
	require.Equal(t, Minutes, sum.Unit)
}

func TestAdd_UnitMismatch(t *testing.T) {
	_, err := Add(New(1, None), New(1, Seconds))
	require.ErrorIs(t, err, ErrUnitMismatch)
}

func TestAdd_BothDimensionless(t *testing.T) {
	sum, err := Add(New(3, None), New(4, None))
	require.NoError(t, err)
	require.Equal(t, T{Value: 7, Unit: None}, sum)
}

func TestInBaseUnit(t *testing.T) {
	v := New(5, None).InBaseUnit(Hours)
	require.Equal(t, Hours, v.Unit)
	require.Equal(t, 5.0, v.Value)

	v2 := New(5, Minutes).InBaseUnit(Hours)
	require.Equal(t, Minutes, v2.Unit)
}

func TestLess(t *testing.T) {
	less, err := Less(New(1, Hours), New(90, Minutes))
	require.NoError(t, err)
	require.True(t, less)
}

func TestCmp_Equal(t *testing.T) {
	c, err := Cmp(New(1, Hours), New(60, Minutes))
	require.NoError(t, err)
	require.Equal(t, 0, c)
}
