package draw

import "testing"

func TestOpString(t *testing.T) {
	if got := OpBeginPath.String(); got != "BeginPath" {
		t.Errorf("OpBeginPath.String() = %q", got)
	}
	if got := Op(99).String(); got != "Op(99)" {
		t.Errorf("unknown op String() = %q", got)
	}
}

func TestConstructors(t *testing.T) {
	c := Arc(1, 2, 3, 0, 6.28)
	if c.Op != OpArc || c.X != 1 || c.Y != 2 || c.Radius != 3 || c.EndAngle != 6.28 {
		t.Errorf("Arc built %+v", c)
	}

	c = SetStrokeColor(TabGreen, 0.5)
	if c.Op != OpSetStrokeColor || c.R != 44 || c.G != 160 || c.B != 44 || c.Alpha != 0.5 {
		t.Errorf("SetStrokeColor built %+v", c)
	}

	c = FillText("hi", 10, 20, 12, AlignRight)
	if c.Op != OpFillText || c.Text != "hi" || c.Align != AlignRight || c.FontSize != 12 {
		t.Errorf("FillText built %+v", c)
	}
}
