package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestServoPulse(t *testing.T) {
	assert.Equal(t, 500*time.Microsecond, servoPulse(0))
	assert.Equal(t, 1500*time.Microsecond, servoPulse(90))
	assert.Equal(t, 2500*time.Microsecond, servoPulse(180))
	assert.Equal(t, 2500*time.Microsecond, servoPulse(200))
	assert.Equal(t, 500*time.Microsecond, servoPulse(-5))
}

func TestPermilleDuty(t *testing.T) {
	assert.Equal(t, time.Duration(0), permilleDuty(analogPeriod, 0))
	assert.Equal(t, 2*time.Millisecond, permilleDuty(analogPeriod, 100))
	assert.Equal(t, analogPeriod, permilleDuty(analogPeriod, 1000))
	assert.Equal(t, analogPeriod, permilleDuty(analogPeriod, 1200))
	assert.Equal(t, time.Duration(0), permilleDuty(analogPeriod, -1))
}

func TestPullMismatch(t *testing.T) {
	assert.False(t, pullMismatch(Mode4, PullDown))
	assert.True(t, pullMismatch(Mode4, PullUp))
	assert.True(t, pullMismatch(Mode4, PullNone))
	assert.False(t, pullMismatch(Mode7, PullNone))
	assert.True(t, pullMismatch(Mode7, PullDown))
}
