package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronService_InvalidSchedule(t *testing.T) {
	_, err := NewCronService(newAuthFixture(t).svc, "not a schedule")
	assert.Error(t, err)
}

func TestCronService_StartStop(t *testing.T) {
	f := newAuthFixture(t)
	for i := 0; i < 5; i++ {
		_, _ = f.login("wrong")
	}
	f.clock.Advance(time.Hour)

	svc, err := NewCronService(f.svc, "@every 1s")
	require.NoError(t, err)
	svc.Start()

	assert.Eventually(t, func() bool {
		admin, err := f.admins.GetByUsername(context.Background(), "admin")
		return err == nil && admin.LockedUntil == nil
	}, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	svc.Stop(ctx)
}
