package autogrow

import "testing"

func TestClamp(t *testing.T) {
	tests := []struct {
		name        string
		extent      int
		min, max    int
		height      int
		overflowing bool
	}{
		{"below min", 10, 44, 320, 44, false},
		{"zero extent", 0, 44, 320, 44, false},
		{"negative extent", -5, 44, 320, 44, false},
		{"at min", 44, 44, 320, 44, false},
		{"between bounds", 120, 44, 320, 120, false},
		{"exactly max is not overflowing", 320, 44, 320, 320, false},
		{"one past max", 321, 44, 320, 320, true},
		{"far past max", 900, 44, 320, 320, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			height, overflowing := Clamp(tt.extent, tt.min, tt.max)
			if height != tt.height {
				t.Errorf("Clamp(%d, %d, %d) height = %d, want %d", tt.extent, tt.min, tt.max, height, tt.height)
			}
			if overflowing != tt.overflowing {
				t.Errorf("Clamp(%d, %d, %d) overflowing = %v, want %v", tt.extent, tt.min, tt.max, overflowing, tt.overflowing)
			}
		})
	}
}

// Exhaustive sweep of the clamp contract over a small range: height stays in
// [min, max], equals max(min, min(extent, max)) exactly, and overflow is
// strict.
func TestClampContract(t *testing.T) {
	const min, max = 5, 20
	for extent := -10; extent <= 50; extent++ {
		height, overflowing := Clamp(extent, min, max)

		if height < min || height > max {
			t.Fatalf("Clamp(%d) = %d, outside [%d, %d]", extent, height, min, max)
		}

		want := extent
		if want < min {
			want = min
		}
		if want > max {
			want = max
		}
		if height != want {
			t.Errorf("Clamp(%d) = %d, want %d", extent, height, want)
		}

		if overflowing != (extent > max) {
			t.Errorf("Clamp(%d) overflowing = %v, want %v", extent, overflowing, extent > max)
		}
	}
}
