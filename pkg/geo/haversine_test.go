package geo

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name             string
		lat1, lon1       float64
		lat2, lon2       float64
		wantMeters       float64
		tolerancePercent float64
	}{
		{
			name: "Stuttgart to Ulm",
			lat1: 48.7758, lon1: 9.1829,
			lat2: 48.4011, lon2: 9.9876,
			wantMeters:       72_000, // ~72 km great-circle
			tolerancePercent: 2,
		},
		{
			name: "same point",
			lat1: 48.7758, lon1: 9.1829,
			lat2: 48.7758, lon2: 9.1829,
			wantMeters:       0,
			tolerancePercent: 0,
		},
		{
			name: "London to Paris",
			lat1: 51.5074, lon1: -0.1278,
			lat2: 48.8566, lon2: 2.3522,
			wantMeters:       343_500,
			tolerancePercent: 1,
		},
		{
			name: "short hop (~111m north)",
			lat1: 48.7758, lon1: 9.1829,
			lat2: 48.7768, lon2: 9.1829,
			wantMeters:       111,
			tolerancePercent: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if tt.wantMeters == 0 {
				if got != 0 {
					t.Errorf("expected 0, got %f", got)
				}
				return
			}
			diff := math.Abs(got-tt.wantMeters) / tt.wantMeters * 100
			if diff > tt.tolerancePercent {
				t.Errorf("Haversine = %f m, want ~%f m (diff %.1f%%)", got, tt.wantMeters, diff)
			}
		})
	}
}

func TestPointToSegmentDist(t *testing.T) {
	tests := []struct {
		name       string
		pLat, pLon float64
		aLat, aLon float64
		bLat, bLon float64
		wantRatio  float64
		maxDistM   float64
	}{
		{
			name: "point at start of segment",
			pLat: 48.7700, pLon: 9.1800,
			aLat: 48.7700, aLon: 9.1800,
			bLat: 48.7800, bLon: 9.1800,
			wantRatio: 0.0,
			maxDistM:  1,
		},
		{
			name: "point at end of segment",
			pLat: 48.7800, pLon: 9.1800,
			aLat: 48.7700, aLon: 9.1800,
			bLat: 48.7800, bLon: 9.1800,
			wantRatio: 1.0,
			maxDistM:  1,
		},
		{
			name: "point perpendicular to midpoint",
			pLat: 48.7750, pLon: 9.1815,
			aLat: 48.7700, aLon: 9.1800,
			bLat: 48.7800, bLon: 9.1800,
			wantRatio: 0.5,
			maxDistM:  200, // ~110m perpendicular
		},
		{
			name: "degenerate segment (A == B)",
			pLat: 48.7700, pLon: 9.1815,
			aLat: 48.7700, aLon: 9.1800,
			bLat: 48.7700, bLon: 9.1800,
			wantRatio: 0.0,
			maxDistM:  200,
		},
		{
			name: "point beyond segment end clamps to 1",
			pLat: 48.7900, pLon: 9.1800,
			aLat: 48.7700, aLon: 9.1800,
			bLat: 48.7800, bLon: 9.1800,
			wantRatio: 1.0,
			maxDistM:  1200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, ratio := PointToSegmentDist(tt.pLat, tt.pLon, tt.aLat, tt.aLon, tt.bLat, tt.bLon)
			if dist > tt.maxDistM {
				t.Errorf("dist = %f m, want <= %f m", dist, tt.maxDistM)
			}
			if math.Abs(ratio-tt.wantRatio) > 0.05 {
				t.Errorf("ratio = %f, want ~%f", ratio, tt.wantRatio)
			}
		})
	}
}

func BenchmarkHaversine(b *testing.B) {
	for b.Loop() {
		Haversine(48.7758, 9.1829, 48.4011, 9.9876)
	}
}
