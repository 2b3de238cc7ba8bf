package chem

// Element is an atomic identity with a relative mass in g/mol.
// Elements are compared by pointer: two elements with the same symbol and
// mass are still distinct entities. Catalogs and formulas key on *Element.
type Element struct {
	Symbol       string
	RelativeMass float64
}

// NewElement creates an element with the given display symbol and relative
// mass. The symbol is what configs and summaries refer to the element by.
func NewElement(symbol string, relativeMass float64) *Element {
	return &Element{
		Symbol:       symbol,
		RelativeMass: relativeMass,
	}
}

func (e *Element) String() string {
	return e.Symbol
}
