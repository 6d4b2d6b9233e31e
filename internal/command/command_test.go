package command

import (
	"strconv"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/cjeanneret/rocketeer/internal/errcode"
	"github.com/cjeanneret/rocketeer/internal/position"
)

func TestLookup_Aliases(t *testing.T) {
	cases := []struct {
		name string
		want Kind
	}{
		{"up", KindUp},
		{"DOWN", KindDown},
		{" Left ", KindLeft},
		{"right", KindRight},
		{"fire", KindFire},
		{"shoot", KindFire},
		{"pause", KindPause},
		{"sleep", KindPause},
		{"led", KindLED},
		{"coordinates", KindCoordinates},
		{"zero", KindZero},
		{"park", KindZero},
		{"reset", KindZero},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Lookup(tc.name)
			if !ok {
				t.Fatalf("Lookup(%q) not found", tc.name)
			}
			if got != tc.want {
				t.Errorf("Lookup(%q) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}

	if _, ok := Lookup("dance"); ok {
		t.Error("Lookup(dance) should not resolve")
	}
}

func TestParse_Primitives(t *testing.T) {
	cases := []struct {
		name, cmd, value string
		want             Step
	}{
		{"up", "up", "300", Step{Kind: KindUp, Name: "up", Duration: 300 * time.Millisecond}},
		{"left_zero", "left", "0", Step{Kind: KindLeft, Name: "left"}},
		{"pause_alias", "sleep", "1500", Step{Kind: KindPause, Name: "sleep", Duration: 1500 * time.Millisecond}},
		{"fire", "fire", "3", Step{Kind: KindFire, Name: "fire", Count: 3}},
		{"fire_out_of_range_kept", "fire", "9", Step{Kind: KindFire, Name: "fire", Count: 9}},
		{"led_on", "led", "1", Step{Kind: KindLED, Name: "led", On: true}},
		{"led_any_nonzero", "led", "7", Step{Kind: KindLED, Name: "led", On: true}},
		{"led_off", "led", "0", Step{Kind: KindLED, Name: "led"}},
		{"empty_is_zero", "fire", "", Step{Kind: KindFire, Name: "fire"}},
		{"zero_ignores_value", "park", "12", Step{Kind: KindZero, Name: "park"}},
		{"zero_ignores_garbage", "reset", "abc", Step{Kind: KindZero, Name: "reset"}},
		{"zero_ignores_pair", "zero", "1,2,3", Step{Kind: KindZero, Name: "zero"}},
		{"longest_pause", "pause", strconv.FormatInt(MaxDurationMs, 10), Step{Kind: KindPause, Name: "pause", Duration: time.Duration(MaxDurationMs) * time.Millisecond}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.cmd, tc.value)
			if err != nil {
				t.Fatalf("Parse(%q, %q): %v", tc.cmd, tc.value, err)
			}
			if got != tc.want {
				t.Errorf("Parse(%q, %q) = %+v, want %+v", tc.cmd, tc.value, got, tc.want)
			}
		})
	}
}

func TestParse_Coordinates(t *testing.T) {
	cases := []struct {
		value string
		x, y  int
	}{
		{"85,10", 85, 10},
		{"85, 15", 85, 15},
		{" 0 , 0 ", 0, 0},
		{"40", 40, 0},
		{"-3,7", -3, 7},
		{"1000000,-1000000", position.MaxCoordinate, -position.MaxCoordinate},
	}
	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			got, err := Parse("coordinates", tc.value)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got.Kind != KindCoordinates || got.X != tc.x || got.Y != tc.y {
				t.Errorf("Parse(coordinates, %q) = %+v, want (%d,%d)", tc.value, got, tc.x, tc.y)
			}
		})
	}
}

func TestParse_InvalidValue(t *testing.T) {
	cases := []struct {
		name, cmd, value string
	}{
		{"not_integer", "up", "fast"},
		{"pair_for_single", "fire", "1,2"},
		{"negative_duration", "down", "-10"},
		{"negative_pause", "pause", "-1"},
		{"three_values", "coordinates", "1,2,3"},
		{"half_pair", "coordinates", "5,"},
		{"bad_y", "coordinates", "5,y"},
		{"duration_overflow", "up", "10000000000000000"},
		{"x_out_of_range", "coordinates", "200000000000,0"},
		{"y_out_of_range", "coordinates", "0,-1000001"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.cmd, tc.value)
			if err == nil {
				t.Fatalf("Parse(%q, %q) should fail", tc.cmd, tc.value)
			}
			if !errors.Is(err, errcode.InvalidValue) {
				t.Errorf("Parse(%q, %q) error = %v, want InvalidValue", tc.cmd, tc.value, err)
			}
		})
	}
}

func TestParse_UnknownCommandIsDeferred(t *testing.T) {
	got, err := Parse("dance", "1")
	if err != nil {
		t.Fatalf("Parse(dance) should not fail, got %v", err)
	}
	if got.Kind != KindUnknown || got.Name != "dance" {
		t.Errorf("Parse(dance) = %+v, want KindUnknown named dance", got)
	}
}

func TestFromArgs(t *testing.T) {
	got, err := FromArgs("coordinates", []string{"90", "15"})
	if err != nil {
		t.Fatalf("FromArgs: %v", err)
	}
	if got.X != 90 || got.Y != 15 {
		t.Errorf("FromArgs coordinates = (%d,%d), want (90,15)", got.X, got.Y)
	}

	got, err = FromArgs("zero", nil)
	if err != nil || got.Kind != KindZero {
		t.Errorf("FromArgs(zero) = %+v, %v", got, err)
	}

	if _, err := FromArgs("coordinates", []string{"1", "2", "3"}); !errors.Is(err, errcode.InvalidValue) {
		t.Errorf("FromArgs with 3 values error = %v, want InvalidValue", err)
	}
}

func TestStep_String(t *testing.T) {
	cases := []struct {
		step Step
		want string
	}{
		{Step{Kind: KindRight, Duration: 250 * time.Millisecond}, "right 250ms"},
		{Step{Kind: KindFire, Count: 2}, "fire 2"},
		{Step{Kind: KindLED, On: true}, "led on"},
		{Step{Kind: KindCoordinates, X: 85, Y: 10}, "coordinates 85,10"},
		{Step{Kind: KindZero}, "zero"},
		{Step{Kind: KindUnknown, Name: "dance"}, "dance"},
	}
	for _, tc := range cases {
		if got := tc.step.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}
