package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-destination-advisor/internal/weather"
)

var base = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func report(id string, at time.Time) weather.BestDestinationReport {
	return weather.BestDestinationReport{ID: id, GeneratedAt: at, BestCity: "Paris"}
}

func TestMemoryStoreLatest(t *testing.T) {
	s := NewMemoryStore(0, 0)

	_, err := s.GetLatest("paris,tokyo")
	require.ErrorIs(t, err, ErrNotFound)

	s.SaveReport("paris,tokyo", report("a", base))
	s.SaveReport("paris,tokyo", report("b", base.Add(time.Minute)))
	s.SaveReport("oslo", report("c", base))

	got, err := s.GetLatest("paris,tokyo")
	require.NoError(t, err)
	require.Equal(t, "b", got.ID)
}

func TestMemoryStoreRetentionByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)
	for i := 0; i < 5; i++ {
		s.SaveReport("k", report(fmt.Sprint(i), base.Add(time.Duration(i)*time.Minute)))
	}

	all, err := s.GetRange("k", base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "3", all[0].ID)
	require.Equal(t, "4", all[1].ID)
}

func TestMemoryStoreRetentionByAge(t *testing.T) {
	s := NewMemoryStore(0, time.Hour)
	s.now = func() time.Time { return base.Add(2 * time.Hour) }

	s.SaveReport("k", report("old", base))
	s.SaveReport("k", report("edge", base.Add(time.Hour)))
	s.SaveReport("k", report("new", base.Add(2*time.Hour)))

	all, err := s.GetRange("k", base, base.Add(3*time.Hour))
	require.NoError(t, err)
	require.Equal(t, []string{"edge", "new"}, ids(all))
}

func TestMemoryStoreRetentionByAgeDropsEverything(t *testing.T) {
	s := NewMemoryStore(0, time.Minute)
	s.now = func() time.Time { return base.Add(time.Hour) }

	s.SaveReport("k", report("stale", base))

	_, err := s.GetLatest("k")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreRangeInclusive(t *testing.T) {
	s := NewMemoryStore(0, 0)
	s.SaveReport("k", report("a", base))
	s.SaveReport("k", report("b", base.Add(time.Minute)))
	s.SaveReport("k", report("c", base.Add(2*time.Minute)))

	got, err := s.GetRange("k", base.Add(time.Minute), base.Add(2*time.Minute))
	require.NoError(t, err)
	require.Equal(t, []string{"b", "c"}, ids(got))

	_, err = s.GetRange("k", base.Add(time.Hour), base.Add(2*time.Hour))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreConcurrentSaves(t *testing.T) {
	s := NewMemoryStore(0, 0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.SaveReport("k", report(fmt.Sprint(i), base))
		}()
	}
	wg.Wait()

	all, err := s.GetRange("k", base, base)
	require.NoError(t, err)
	require.Len(t, all, 50)
}

func TestMemoryStoreOrdersByGeneratedAt(t *testing.T) {
	s := NewMemoryStore(0, 0)
	s.SaveReport("k", report("later", base.Add(2*time.Minute)))
	s.SaveReport("k", report("earlier", base))
	s.SaveReport("k", report("middle", base.Add(time.Minute)))

	latest, err := s.GetLatest("k")
	require.NoError(t, err)
	require.Equal(t, "later", latest.ID)

	all, err := s.GetRange("k", base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, []string{"earlier", "middle", "later"}, ids(all))
}

func TestMemoryStoreRetentionByCountKeepsNewest(t *testing.T) {
	s := NewMemoryStore(2, 0)
	s.SaveReport("k", report("b", base.Add(time.Minute)))
	s.SaveReport("k", report("c", base.Add(2*time.Minute)))
	s.SaveReport("k", report("a", base)) // late arrival, oldest

	all, err := s.GetRange("k", base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, []string{"b", "c"}, ids(all))
}

func TestMemoryStoreForgetsExpiredWatchlist(t *testing.T) {
	s := NewMemoryStore(0, time.Minute)
	s.now = func() time.Time { return base.Add(time.Hour) }

	s.SaveReport("paris", report("stale", base))
	s.SaveReport("oslo", report("fresh", base.Add(time.Hour)))

	require.NotContains(t, s.reports, "paris")
	require.Contains(t, s.reports, "oslo")
}

func TestMemoryStoreRangeReturnsCopy(t *testing.T) {
	s := NewMemoryStore(0, 0)
	s.SaveReport("k", report("a", base))

	got, err := s.GetRange("k", base, base)
	require.NoError(t, err)
	got[0].ID = "mutated"

	latest, err := s.GetLatest("k")
	require.NoError(t, err)
	require.Equal(t, "a", latest.ID)
}

func ids(reports []weather.BestDestinationReport) []string {
	out := make([]string, 0, len(reports))
	for _, r := range reports {
		out = append(out, r.ID)
	}
	return out
}
