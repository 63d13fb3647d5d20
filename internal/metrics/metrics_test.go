package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveBuild(t *testing.T) {
	before := testutil.ToFloat64(SimilarityIndexReuse.WithLabelValues("movie"))
	ObserveBuild("movie", 12, true, time.Millisecond)
	if got := testutil.ToFloat64(SimilarityIndexReuse.WithLabelValues("movie")); got != before+1 {
		t.Errorf("reuse = %f, want %f", got, before+1)
	}
	if got := testutil.ToFloat64(CatalogSize.WithLabelValues("movie")); got != 12 {
		t.Errorf("catalog size = %f, want 12", got)
	}

	ObserveBuild("serie", 3, false, 5*time.Millisecond)
	if n := testutil.CollectAndCount(SimilarityBuildDuration); n < 1 {
		t.Errorf("expected build histogram series, got %d", n)
	}
}
