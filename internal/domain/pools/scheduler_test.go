package pools

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeMonthlyBuilder struct {
	months []string
	err    error
}

func (b *fakeMonthlyBuilder) BuildMonthlyPools(_ context.Context, month string) (*BuildResult, error) {
	b.months = append(b.months, month)
	if b.err != nil {
		return nil, b.err
	}
	return &BuildResult{Month: month}, nil
}

func TestScheduler_BuildsEachMonthOnce(t *testing.T) {
	builder := &fakeMonthlyBuilder{}
	s := NewScheduler(builder, time.Hour)

	now := time.Date(2024, 2, 1, 0, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.Check(context.Background())
	s.Check(context.Background())
	assert.Equal(t, []string{"2024-01"}, builder.months)

	now = time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC)
	s.Check(context.Background())
	assert.Equal(t, []string{"2024-01", "2024-02"}, builder.months)
}

func TestScheduler_RetriesAfterFailure(t *testing.T) {
	builder := &fakeMonthlyBuilder{err: errors.New("db down")}
	s := NewScheduler(builder, time.Hour)
	s.now = func() time.Time { return time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC) }

	s.Check(context.Background())
	builder.err = nil
	s.Check(context.Background())
	s.Check(context.Background())

	assert.Equal(t, []string{"2024-01", "2024-01"}, builder.months)
}
