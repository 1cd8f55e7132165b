package timezone

import "testing"

func TestService_Location(t *testing.T) {
	if testing.Short() {
		t.Skip("loads timezone polygons")
	}
	svc, err := NewService()
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	tests := []struct {
		name     string
		lat, lon float64
		want     string
	}{
		{name: "Lahore", lat: 31.5656822, lon: 74.3141829, want: "Asia/Karachi"},
		{name: "Karachi", lat: 24.8607, lon: 67.0011, want: "Asia/Karachi"},
		{name: "Peshawar", lat: 34.0151, lon: 71.5249, want: "Asia/Karachi"},
		{name: "Tokyo", lat: 35.6762, lon: 139.6503, want: "Asia/Tokyo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := svc.Location(tt.lat, tt.lon)
			if err != nil {
				t.Fatalf("Location() error = %v", err)
			}
			if loc.String() != tt.want {
				t.Errorf("Location() = %v, want %v", loc, tt.want)
			}
		})
	}
}

func TestNewService_Shared(t *testing.T) {
	if testing.Short() {
		t.Skip("loads timezone polygons")
	}
	a, err := NewService()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := NewService()
	if a != b {
		t.Error("NewService() returned distinct instances")
	}
}
