package cron

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	name string
}

func (s *stubJob) Name() string              { return s.name }
func (s *stubJob) Run(context.Context) error { return nil }

func TestRegistryKeepsRegistrationOrder(t *testing.T) {
	retention := &stubJob{name: "outbox-retention"}
	sweep := &stubJob{name: "offer-sweep"}
	registry := NewRegistry(retention, nil, sweep)

	jobs := registry.Jobs()
	require.Len(t, jobs, 2)
	assert.Same(t, retention, jobs[0].(*stubJob))
	assert.Same(t, sweep, jobs[1].(*stubJob))
}

func TestRegistryJobsReturnsCopy(t *testing.T) {
	registry := NewRegistry(&stubJob{name: "offer-sweep"})

	jobs := registry.Jobs()
	jobs[0] = nil
	require.NotNil(t, registry.Jobs()[0])
}
