package nav

import (
	"math"
	"testing"
)

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{360, 0},
		{450, 90},
		{-90, 270},
		{-360, 0},
		{-450, 270},
		{359.5, 359.5},
	}
	for _, tt := range tests {
		if got := NormalizeAngle(tt.in); got != tt.want {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClockwiseDelta(t *testing.T) {
	tests := []struct {
		from, to float64
		want     float64
	}{
		{0, 90, 90},
		{90, 0, 270},
		{350, 10, 20},
		{10, 350, 340},
		{180, 180, 0},
	}
	for _, tt := range tests {
		if got := clockwiseDelta(tt.from, tt.to); got != tt.want {
			t.Errorf("clockwiseDelta(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestAngleDiff(t *testing.T) {
	tests := []struct {
		a, b float64
		want float64
	}{
		{0, 0, 0},
		{90, 0, 90},
		{0, 90, -90},
		{350, 10, -20},
		{180, 0, -180}, // 180 normalizes to the negative edge of the window
	}
	for _, tt := range tests {
		if got := angleDiff(tt.a, tt.b); got != tt.want {
			t.Errorf("angleDiff(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDirectionForward(t *testing.T) {
	tests := []struct {
		name string
		dir  Direction
		want Vec3
	}{
		{name: "SpinZero", dir: Direction{Angle: 0}, want: Vec3{Z: 1}},
		{name: "SpinNinety", dir: Direction{Angle: 90}, want: Vec3{X: 1}},
		{name: "SpinOneEighty", dir: Direction{Angle: 180}, want: Vec3{Z: -1}},
		{name: "PitchUp", dir: Direction{Angle: 0, Pitch: 60}, want: Vec3{Y: math.Sin(math.Pi / 3), Z: math.Cos(math.Pi / 3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.dir.Forward()
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 || math.Abs(got.Z-tt.want.Z) > 1e-9 {
				t.Errorf("Forward() = %v, want %v", got, tt.want)
			}
			if d := math.Abs(got.Len() - 1); d > 1e-9 {
				t.Errorf("Forward() length off unit by %v", d)
			}
		})
	}
}
