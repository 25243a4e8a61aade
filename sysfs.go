package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// headerGPIO maps the header pins this app can be configured with to their
// kernel GPIO numbers.
var headerGPIO = map[string]int{
	"P8_7":  66,
	"P8_8":  67,
	"P8_9":  69,
	"P8_10": 68,
	"P8_11": 45,
	"P8_12": 44,
	"P8_13": 23,
	"P8_14": 26,
	"P8_15": 47,
	"P8_16": 46,
	"P8_17": 27,
	"P8_18": 65,
	"P8_19": 22,
	"P8_26": 61,
	"P9_11": 30,
	"P9_12": 60,
	"P9_13": 31,
	"P9_14": 50,
	"P9_15": 48,
	"P9_16": 51,
	"P9_23": 49,
	"P9_27": 115,
}

// gpioName returns the periph registry name of a header pin, e.g. "GPIO23".
func gpioName(p Pin) (string, error) {
	n, ok := headerGPIO[p.String()]
	if !ok {
		return "", fmt.Errorf("%s: no GPIO mapping", p)
	}
	return fmt.Sprintf("GPIO%d", n), nil
}

// readAttr reads a single sysfs attribute without the trailing newline.
func readAttr(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// ReadADC reads the raw 12-bit value of an AIN channel from the IIO device.
func ReadADC(root string, ch AnalogChannel) (int, error) {
	s, err := readAttr(filepath.Join(root, fmt.Sprintf("in_voltage%d_raw", int(ch))))
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("AIN%d: %w", int(ch), err)
	}
	if v < 0 {
		v = 0
	}
	if v > AnalogMax {
		v = AnalogMax
	}
	return v, nil
}
