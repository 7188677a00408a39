package simclock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExecutesInTimeOrder(t *testing.T) {
	s := New()
	var got []string
	var at []time.Duration
	record := func(name string) func() {
		return func() {
			got = append(got, name)
			at = append(at, s.Now())
		}
	}
	s.ScheduleAfter(3*time.Second, record("c"))
	s.ScheduleAfter(time.Second, record("a"))
	s.ScheduleAfter(2*time.Second, record("b1"))
	s.ScheduleAfter(2*time.Second, record("b2"))

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, []string{"a", "b1", "b2", "c"}, got)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 2 * time.Second, 3 * time.Second}, at)
	assert.Equal(t, 0, s.Pending())
}

func TestCallbacksCanReschedule(t *testing.T) {
	s := New()
	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		if ticks < 5 {
			s.ScheduleAfter(5*time.Second, tick)
		}
	}
	s.ScheduleAfter(0, tick)

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 5, ticks)
	assert.Equal(t, 20*time.Second, s.Now())
}

func TestStopAtLeavesLaterEventsQueued(t *testing.T) {
	s := New()
	ran := 0
	for i := 1; i <= 4; i++ {
		s.ScheduleAfter(time.Duration(i)*time.Second, func() { ran++ })
	}
	s.StopAt(2 * time.Second)

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 2, ran)
	assert.Equal(t, 2*time.Second, s.Now())
	assert.Equal(t, 2, s.Pending())
}

func TestStopFromCallback(t *testing.T) {
	s := New()
	ran := 0
	s.ScheduleAfter(time.Second, func() { ran++; s.Stop() })
	s.ScheduleAfter(2*time.Second, func() { ran++ })

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 1, ran)
	assert.Equal(t, 1, s.Pending())
}

func TestCancel(t *testing.T) {
	s := New()
	ran := false
	id := s.ScheduleAfter(time.Second, func() { ran = true })
	s.Cancel(id)
	s.Cancel(id)
	s.Cancel(EventID(999))

	require.NoError(t, s.Run(context.Background()))
	assert.False(t, ran)
}

func TestRunHonoursContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	ran := 0
	s.ScheduleAfter(time.Second, func() { ran++; cancel() })
	s.ScheduleAfter(2*time.Second, func() { ran++ })

	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, ran)
}

func TestDestroyDropsEvents(t *testing.T) {
	s := New()
	ran := false
	s.ScheduleAfter(time.Second, func() { ran = true })
	s.Destroy()
	assert.Equal(t, EventID(0), s.ScheduleAfter(time.Second, func() { ran = true }))

	require.NoError(t, s.Run(context.Background()))
	assert.False(t, ran)
	assert.Equal(t, 0, s.Pending())
}
