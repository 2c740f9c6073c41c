// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package report

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veerakabilan31/portfolio/internal/geoip"
	"github.com/Veerakabilan31/portfolio/internal/store"
	"github.com/Veerakabilan31/portfolio/internal/testutil"
)

type staticCountries map[string]string

func (s staticCountries) Country(ip string) string { return s[ip] }

func TestBuild(t *testing.T) {
	st := testutil.TestStore(t)
	ctx := context.Background()

	for i := range 60 {
		_, err := st.InsertMessage(ctx, fmt.Sprintf("n%d", i), "a@x.com", "hi")
		require.NoError(t, err)
	}
	for _, ip := range []string{"1.1.1.1", "1.1.1.1", "10.0.0.1"} {
		_, err := st.InsertVisit(ctx, ip, "curl/8.1.2")
		require.NoError(t, err)
	}

	d, err := Build(ctx, st, Options{Countries: staticCountries{"1.1.1.1": "US", "10.0.0.1": geoip.Local}})
	require.NoError(t, err)

	assert.EqualValues(t, 3, d.TotalVisits)
	assert.EqualValues(t, 2, d.UniqueVisitors)
	assert.EqualValues(t, 60, d.TotalMessages)

	require.Len(t, d.Messages, DefaultRecentLimit)
	assert.Equal(t, "n59", d.Messages[0].Name, "newest message first")
	for i := 1; i < len(d.Messages); i++ {
		assert.Greater(t, d.Messages[i-1].ID, d.Messages[i].ID)
	}

	require.Len(t, d.Visits, 3)
	assert.Equal(t, "10.0.0.1", d.Visits[0].IP)
	assert.Equal(t, "Local Network", d.Visits[0].Country)
	assert.Equal(t, "United States", d.Visits[1].Country)
	assert.Equal(t, "curl", d.Visits[1].Agent.Browser)

	today := time.Now().UTC().Format(time.DateOnly)
	assert.Equal(t, []string{today}, d.VisitsPerDay.Labels())
	assert.Equal(t, []int64{3}, d.VisitsPerDay.Values())
	assert.Equal(t, []int64{60}, d.MessagesPerDay.Values())
}

func TestBuild_Empty(t *testing.T) {
	d, err := Build(context.Background(), testutil.TestStore(t), Options{})
	require.NoError(t, err)

	assert.Zero(t, d.TotalVisits)
	assert.Zero(t, d.TotalMessages)
	assert.Empty(t, d.Messages)
	assert.Empty(t, d.Visits)
	assert.Empty(t, d.VisitsPerDay.Labels())
}

func TestBuild_DoesNotMutate(t *testing.T) {
	st := testutil.TestStore(t)
	ctx := context.Background()
	_, err := st.InsertMessage(ctx, "A", "a@x.com", "hi")
	require.NoError(t, err)

	for range 2 {
		_, err := Build(ctx, st, Options{})
		require.NoError(t, err)
	}

	n, err := st.CountMessages(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	v, err := st.CountVisits(ctx)
	require.NoError(t, err)
	assert.Zero(t, v)
}

type failingSource struct {
	store.Store
}

func (*failingSource) CountVisits(context.Context) (int64, error) {
	return 0, errors.New("database is locked")
}

func TestBuild_StorageError(t *testing.T) {
	_, err := Build(context.Background(), &failingSource{}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "counting visits")
}

func TestSeries(t *testing.T) {
	s := Series{{Day: "2026-01-01", Count: 2}, {Day: "2026-01-03", Count: 5}}

	assert.Equal(t, []string{"2026-01-01", "2026-01-03"}, s.Labels())
	assert.Equal(t, []int64{2, 5}, s.Values())
}
