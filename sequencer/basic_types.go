package sequencer

type (
	// Action is a no-parameter operation the UI can invoke, with an
	// enabledness the UI can poll. Actions are constructed by the various
	// model accessors; the zero Action does nothing and is disabled.
	Action struct {
		do      func()
		enabled func() bool
	}

	// Bool wraps a BoolValue to provide a Toggle convenience; it is the
	// handle the UI gets for all on/off model properties.
	Bool struct {
		value BoolValue
	}

	BoolValue interface {
		Value() bool
		SetValue(bool)
		Enabled() bool
	}

	// Int wraps an IntValue, clamping all writes to the value's range.
	Int struct {
		value IntValue
	}

	IntValue interface {
		Value() int
		SetValue(int) bool
		Range() IntRange
	}

	IntRange struct {
		Min, Max int
	}

	// Float wraps a FloatValue the same way Int wraps an IntValue; used for
	// the continuous controls (volumes and pitches).
	Float struct {
		value FloatValue
	}

	FloatValue interface {
		Value() float32
		SetValue(float32) bool
		Range() FloatRange
	}

	FloatRange struct {
		Min, Max float32
	}

	// String wraps a StringValue; currently all model strings are editable.
	String struct {
		value StringValue
	}

	StringValue interface {
		Value() string
		SetValue(string) bool
	}

	// Point is a grid address as a selection coordinate, X being the column
	// and Y the step.
	Point struct {
		X, Y int
	}

	// Rect is a selection rectangle between two corners, in either order.
	Rect struct {
		TopLeft, BottomRight Point
	}
)

func MakeAction(do func()) Action {
	return Action{do: do, enabled: func() bool { return true }}
}

func MakeEnabledAction(do func(), enabled func() bool) Action {
	return Action{do: do, enabled: enabled}
}

func (a Action) Do() {
	if a.do != nil && a.Enabled() {
		a.do()
	}
}

func (a Action) Enabled() bool {
	return a.enabled != nil && a.enabled()
}

func MakeBool(value BoolValue) Bool { return Bool{value} }
func (v Bool) Value() bool          { return v.value.Value() }
func (v Bool) Enabled() bool        { return v.value.Enabled() }
func (v Bool) Toggle()              { v.SetValue(!v.Value()) }
func (v Bool) SetValue(value bool) {
	if v.value.Enabled() {
		v.value.SetValue(value)
	}
}

func MakeInt(value IntValue) Int { return Int{value} }
func (v Int) Value() int         { return v.value.Value() }
func (v Int) Range() IntRange    { return v.value.Range() }
func (v Int) Add(delta int) bool { return v.SetValue(v.Value() + delta) }
func (v Int) SetValue(value int) bool {
	r := v.value.Range()
	value = r.Clamp(value)
	if value == v.value.Value() {
		return false
	}
	return v.value.SetValue(value)
}

func (r IntRange) Clamp(value int) int {
	return max(r.Min, min(r.Max, value))
}

func (r IntRange) Contains(value int) bool {
	return value >= r.Min && value <= r.Max
}

func MakeFloat(value FloatValue) Float { return Float{value} }
func (v Float) Value() float32         { return v.value.Value() }
func (v Float) Range() FloatRange      { return v.value.Range() }
func (v Float) SetValue(value float32) bool {
	r := v.value.Range()
	value = r.Clamp(value)
	if value == v.value.Value() {
		return false
	}
	return v.value.SetValue(value)
}

func (r FloatRange) Clamp(value float32) float32 {
	return max(r.Min, min(r.Max, value))
}

func MakeString(value StringValue) String { return String{value} }
func (v String) Value() string            { return v.value.Value() }
func (v String) SetValue(value string) bool {
	if value == v.value.Value() {
		return false
	}
	return v.value.SetValue(value)
}

// Union returns the smallest rectangle containing both corners of r and the
// point p.
func (r Rect) Union(p Point) Rect {
	return Rect{
		TopLeft:     Point{min(r.TopLeft.X, p.X), min(r.TopLeft.Y, p.Y)},
		BottomRight: Point{max(r.BottomRight.X, p.X), max(r.BottomRight.Y, p.Y)},
	}
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.TopLeft.X && p.X <= r.BottomRight.X &&
		p.Y >= r.TopLeft.Y && p.Y <= r.BottomRight.Y
}

// Normalized returns r with its corners swapped as needed so that TopLeft is
// really the top left corner.
func (r Rect) Normalized() Rect {
	return Rect{
		TopLeft:     Point{min(r.TopLeft.X, r.BottomRight.X), min(r.TopLeft.Y, r.BottomRight.Y)},
		BottomRight: Point{max(r.TopLeft.X, r.BottomRight.X), max(r.TopLeft.Y, r.BottomRight.Y)},
	}
}

func (r Rect) Width() int  { return r.BottomRight.X - r.TopLeft.X + 1 }
func (r Rect) Height() int { return r.BottomRight.Y - r.TopLeft.Y + 1 }
