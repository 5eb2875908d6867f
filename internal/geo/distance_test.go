package geo

import (
	"math"
	"testing"
)

func TestDistance_SameCoordinateIsZero(t *testing.T) {
	d := DistanceMeters(40.7128, -74.0060, 40.7128, -74.0060)
	if d != 0 {
		t.Errorf("Expected 0, got %v", d)
	}
}

func TestDistance_Symmetric(t *testing.T) {
	a := Coordinate{Latitude: 40.7128, Longitude: -74.0060}
	b := Coordinate{Latitude: 51.5074, Longitude: -0.1278}

	ab := Distance(a, b)
	ba := Distance(b, a)
	if math.Abs(ab-ba) > 1e-6 {
		t.Errorf("Expected symmetric distance, got %v and %v", ab, ba)
	}
}

func TestDistance_KnownPairs(t *testing.T) {
	issue := Coordinate{Latitude: 40.7128, Longitude: -74.0060}

	far := Coordinate{Latitude: 40.7200, Longitude: -74.0060}
	if d := Distance(issue, far); d <= 500 {
		t.Errorf("Expected > 500m, got %v", d)
	}

	near := Coordinate{Latitude: 40.7135, Longitude: -74.0060}
	d := Distance(issue, near)
	if d > 500 {
		t.Errorf("Expected <= 500m, got %v", d)
	}
	if d < 70 || d > 85 {
		t.Errorf("Expected roughly 78m, got %v", d)
	}
}

func TestDistance_NewYorkToLondon(t *testing.T) {
	ny := Coordinate{Latitude: 40.7128, Longitude: -74.0060}
	london := Coordinate{Latitude: 51.5074, Longitude: -0.1278}

	km := Distance(ny, london) / 1000
	if km < 5560 || km > 5580 {
		t.Errorf("Expected ~5570km, got %v", km)
	}
}

func TestWithin_Inclusive(t *testing.T) {
	a := Coordinate{Latitude: 10, Longitude: 10}
	b := Coordinate{Latitude: 10.001, Longitude: 10}
	d := Distance(a, b)

	got, ok := Within(a, b, d)
	if !ok {
		t.Error("Expected boundary distance to count as within")
	}
	if got != d {
		t.Errorf("Expected distance %v, got %v", d, got)
	}
	if _, ok := Within(a, b, d-0.01); ok {
		t.Error("Expected distance just under radius to be outside")
	}
}

func TestCoordinate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		coord   Coordinate
		wantErr bool
	}{
		{"origin", Coordinate{0, 0}, false},
		{"poles and dateline", Coordinate{90, -180}, false},
		{"latitude too high", Coordinate{90.1, 0}, true},
		{"longitude too low", Coordinate{0, -180.5}, true},
		{"nan", Coordinate{math.NaN(), 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.coord.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
