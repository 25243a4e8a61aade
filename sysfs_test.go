package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestParsePin(t *testing.T) {
	p, err := ParsePin("P8_13")
	require.NoError(t, err)
	assert.Equal(t, Pin{Bank: P8, Num: 13}, p)
	assert.Equal(t, "P8_13", p.String())

	for _, bad := range []string{"", "P8", "P7_1", "P9_0", "P9_47", "GPIO23"} {
		_, err := ParsePin(bad)
		assert.Error(t, err, bad)
	}
}

func TestGPIOName(t *testing.T) {
	name, err := gpioName(Pin{Bank: P8, Num: 13})
	require.NoError(t, err)
	assert.Equal(t, "GPIO23", name)

	name, err = gpioName(Pin{Bank: P9, Num: 12})
	require.NoError(t, err)
	assert.Equal(t, "GPIO60", name)

	_, err = gpioName(Pin{Bank: P9, Num: 1})
	assert.Error(t, err)
}

func TestReadADC(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "in_voltage2_raw"), []byte("1234\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "in_voltage3_raw"), []byte("5000\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "in_voltage1_raw"), []byte("x\n"), 0o644))

	v, err := ReadADC(root, A2)
	require.NoError(t, err)
	assert.Equal(t, 1234, v)

	v, err = ReadADC(root, A3)
	require.NoError(t, err)
	assert.Equal(t, AnalogMax, v)

	_, err = ReadADC(root, A1)
	assert.Error(t, err)
	_, err = ReadADC(root, A0)
	assert.Error(t, err)
}
