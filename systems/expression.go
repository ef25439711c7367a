package systems

// Variant is one displayable expression of the primary subject.
type Variant struct {
	Name    string
	Texture string
}

// ExpressionState counts clicks on the primary subject and cycles its
// expression every Threshold clicks.
type ExpressionState struct {
	Variants     []Variant
	CurrentIndex int
	ClickCount   int
	Threshold    int

	shakePending bool
}

// NewExpressionState creates a state showing the first variant.
func NewExpressionState(variants []Variant, threshold int) *ExpressionState {
	return &ExpressionState{
		Variants:  variants,
		Threshold: threshold,
	}
}

// RegisterClick records one subject click. Returns true when the click
// crossed a threshold boundary and the expression advanced.
func (e *ExpressionState) RegisterClick() bool {
	e.ClickCount++
	if e.Threshold <= 0 || e.ClickCount%e.Threshold != 0 || len(e.Variants) == 0 {
		return false
	}
	e.CurrentIndex = (e.CurrentIndex + 1) % len(e.Variants)
	e.shakePending = true
	return true
}

// Current returns the variant on display.
func (e *ExpressionState) Current() (Variant, bool) {
	if len(e.Variants) == 0 {
		return Variant{}, false
	}
	return e.Variants[e.CurrentIndex], true
}

// ConsumeShake reports and clears the one-shot shake request.
func (e *ExpressionState) ConsumeShake() bool {
	pending := e.shakePending
	e.shakePending = false
	return pending
}
