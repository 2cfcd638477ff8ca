package fx

import (
	"image/color"
	"testing"
)

func TestApplyCommandSepiaPercentForms(t *testing.T) {
	src := makeSolidBuffer(2, 2, color.NRGBA{R: 90, G: 60, B: 30, A: 255})
	a, err := ApplyCommand(src, "sepia", []string{"50%"})
	if err != nil {
		t.Fatalf("sepia 50%% failed: %v", err)
	}
	b, err := ApplyCommand(src, "sepia", []string{" 50.0 "})
	if err != nil {
		t.Fatalf("sepia 50.0 failed: %v", err)
	}
	c, err := ApplyCommand(src, "sepia", []string{"50"})
	if err != nil {
		t.Fatalf("sepia 50 failed: %v", err)
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] || a.Pix[i] != c.Pix[i] {
			t.Fatalf("percent forms disagree at %d: %d %d %d", i, a.Pix[i], b.Pix[i], c.Pix[i])
		}
	}
}

func TestParsePercentIsAlwaysPercentage(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"0.99", 0.99},
		{"1", 1},
		{"0.5%", 0.5},
		{"75%", 75},
		{"100", 100},
	}
	for _, tc := range cases {
		got, err := ParsePercent(tc.in)
		if err != nil {
			t.Fatalf("ParsePercent(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParsePercent(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := ParsePercent("half"); err == nil {
		t.Fatal("ParsePercent(\"half\") succeeded")
	}
}

func TestApplyCommandDefaults(t *testing.T) {
	req, err := BuildRequest("posterize", nil)
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	if req.Percent != 50 {
		t.Fatalf("default percent = %v, want 50", req.Percent)
	}
	req, err = BuildRequest("emboss", []string{"bottom-left light"})
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	if req.Direction != BottomLeft {
		t.Fatalf("direction = %v, want bottom_left", req.Direction)
	}
	req, err = BuildRequest("blur", []string{"", "3px"})
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	if req.BlurRadius() != 3 {
		t.Fatalf("radius = %v, want 3", req.BlurRadius())
	}
}

func TestApplyCommandErrors(t *testing.T) {
	src := NewPixelBuffer(3, 3)
	cases := []struct {
		name string
		args []string
	}{
		{"swirl", nil},
		{"edge_sobel", []string{"10"}},
		{"sepia", []string{"lots"}},
		{"sepia", []string{"150"}},
		{"emboss", []string{"sideways"}},
		{"blur", []string{"10", "-1"}},
	}
	for _, tc := range cases {
		if _, err := ApplyCommand(src, tc.name, tc.args); err == nil {
			t.Fatalf("%s %v: expected error", tc.name, tc.args)
		}
	}
	if _, err := ApplyCommand(&PixelBuffer{Width: 1, Height: 1}, "sepia", nil); err == nil {
		t.Fatalf("expected invalid buffer error")
	}
}

func TestCommandsCoverEveryEffect(t *testing.T) {
	for _, e := range Effects() {
		c, ok := CommandFor(e)
		if !ok {
			t.Fatalf("no command for %v", e)
		}
		if c.Name != e.String() {
			t.Fatalf("command %q registered for %v", c.Name, e)
		}
		if c.OutputName == "" {
			t.Fatalf("command %q has no output name", c.Name)
		}
	}
	if _, ok := LookupCommand("greyscale"); !ok {
		t.Fatalf("alias lookup failed")
	}
}
