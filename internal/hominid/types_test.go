package hominid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTech(t *testing.T) {
	cases := []struct {
		flag, label string
		want        TechType
	}{
		{"yes", "primitive", Primitive},
		{"yes", "mode 1", Mode1},
		{"likely", "mode 2", Mode2},
		{"yes", "mode 3", Mode3},
		{"likely", "mode 4", Mode4},
		{"no", "mode 4", NoTech},
		{"no", "garbage", NoTech},
		{"no", "", NoTech},
	}
	for _, tc := range cases {
		got, err := ResolveTech(tc.flag, tc.label)
		require.NoError(t, err, "%s/%s", tc.flag, tc.label)
		assert.Equal(t, tc.want, got, "%s/%s", tc.flag, tc.label)
	}
}

func TestResolveTech_Unrecognized(t *testing.T) {
	_, err := ResolveTech("maybe", "mode 1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotRecognized))
	assert.Contains(t, err.Error(), `"maybe"`)

	_, err = ResolveTech("yes", "mode 5")
	assert.ErrorIs(t, err, ErrNotRecognized)

	// vocabulary is case-sensitive
	_, err = ResolveTech("Yes", "mode 1")
	assert.ErrorIs(t, err, ErrNotRecognized)
}

func TestParseDietType(t *testing.T) {
	want := map[string]DietType{
		"omnivore":    Omnivore,
		"dry fruits":  DryFruit,
		"hard fruits": HardFruit,
		"carnivorous": Carnivore,
		"soft fruits": SoftFruit,
	}
	for in, d := range want {
		got, err := ParseDietType(in)
		require.NoError(t, err)
		assert.Equal(t, d, got)
		assert.Equal(t, in, got.String())
	}
	_, err := ParseDietType("herbivore")
	assert.ErrorIs(t, err, ErrNotRecognized)
}

func TestTechTypeOrder(t *testing.T) {
	all := AllTechTypes()
	require.Len(t, all, 6)
	for i, tt := range all {
		assert.Equal(t, i, tt.Rank())
	}
	assert.Equal(t, "no tech", NoTech.String())
	assert.Equal(t, "mode 4", Mode4.String())
	assert.Equal(t, "TechType(9)", TechType(9).String())
}

func TestNewRecordRatio(t *testing.T) {
	r := NewRecord("A", 520, 110, NoTech, Omnivore)
	assert.Equal(t, 520.0/110.0, r.SkullBodyRatio())
}
