package cluster

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"dimension mismatch", []float32{1, 0, 0}, []float32{1, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cosineSimilarity(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestClustererAssignsSimilarVectorsTogether(t *testing.T) {
	c := New(DefaultThreshold)

	c.Add(0, []float32{1, 0, 0}, []string{"invoice"})
	c.Add(1, []float32{0.99, 0.01, 0}, []string{"invoice"})
	c.Add(2, []float32{0, 1, 0}, []string{"photo"})

	clusters := c.Clusters()
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(clusters))
	}
	if len(clusters[0].Members) != 2 {
		t.Fatalf("first cluster has %d members, want 2", len(clusters[0].Members))
	}
	if len(clusters[1].Members) != 1 {
		t.Fatalf("second cluster has %d members, want 1", len(clusters[1].Members))
	}
}

func TestClustererMonotonicity(t *testing.T) {
	// A member once assigned to a cluster is never reassigned within the
	// same run: adding more vectors never mutates earlier members' index.
	c := New(DefaultThreshold)
	c.Add(0, []float32{1, 0}, nil)
	c.Add(1, []float32{1, 0}, nil)
	c.Add(2, []float32{0, 1}, nil)

	clusters := c.Clusters()
	if clusters[0].Members[0].Index != 0 || clusters[0].Members[1].Index != 1 {
		t.Fatalf("unexpected member order: %+v", clusters[0].Members)
	}
}

func TestClustererCentroidIsTrueMean(t *testing.T) {
	c := New(DefaultThreshold)
	c.Add(0, []float32{1, 0}, nil)
	c.Add(1, []float32{0.9, 0}, nil)
	c.Add(2, []float32{0.8, 0}, nil)

	got := c.Clusters()[0].Centroid
	want := float32(0.9)
	if math.Abs(float64(got[0]-want)) > 1e-6 {
		t.Errorf("centroid[0] = %v, want %v", got[0], want)
	}
}

func TestClustererDominantTagsTopThreeLexicographicTieBreak(t *testing.T) {
	c := New(DefaultThreshold)
	c.Add(0, []float32{1, 0}, []string{"a", "b"})
	c.Add(1, []float32{0.99, 0}, []string{"a", "c"})
	c.Add(2, []float32{0.98, 0}, []string{"d"})

	// a:2, b:1, c:1, d:1 -> top-3 by count then lexicographic: a, b, c
	got := c.Clusters()[0].DominantTags
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("dominant tags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dominant tags = %v, want %v", got, want)
		}
	}
}

func TestThresholdClamped(t *testing.T) {
	c := New(5)
	if c.threshold != 1 {
		t.Errorf("threshold = %v, want clamped to 1", c.threshold)
	}
	c2 := New(-5)
	if c2.threshold != 0 {
		t.Errorf("threshold = %v, want clamped to 0", c2.threshold)
	}
}
