package chem

import "sort"

// Catalog is the named registry of the elements, substances, and reactions
// that make up one simulated chemistry. It is the construction boundary:
// configs, servers, and clients refer to entities by name, the core model
// by pointer, and the catalog translates between the two.
type Catalog struct {
	Name       string
	elements   map[string]*Element
	substances map[string]*Substance
	reactions  []*Reaction
}

// NewCatalog creates an empty catalog with the given name.
func NewCatalog(name string) *Catalog {
	return &Catalog{
		Name:       name,
		elements:   make(map[string]*Element),
		substances: make(map[string]*Substance),
		reactions:  make([]*Reaction, 0),
	}
}

// WithElements adds elements to the catalog keyed by symbol and returns
// the catalog for method chaining. A repeated symbol replaces the earlier
// entry.
func (c *Catalog) WithElements(elements ...*Element) *Catalog {
	for _, el := range elements {
		c.elements[el.Symbol] = el
	}
	return c
}

// WithSubstances adds substances to the catalog keyed by name and returns
// the catalog for method chaining.
func (c *Catalog) WithSubstances(substances ...*Substance) *Catalog {
	for _, s := range substances {
		c.substances[s.Name] = s
	}
	return c
}

// WithReactions adds reactions to the catalog and returns the catalog for
// method chaining.
func (c *Catalog) WithReactions(reactions ...*Reaction) *Catalog {
	c.reactions = append(c.reactions, reactions...)
	return c
}

// Element retrieves an element by symbol.
// Returns the element and a boolean indicating if it was found.
func (c *Catalog) Element(symbol string) (*Element, bool) {
	el, ok := c.elements[symbol]
	return el, ok
}

// Substance retrieves a substance by name.
// Returns the substance and a boolean indicating if it was found.
func (c *Catalog) Substance(name string) (*Substance, bool) {
	s, ok := c.substances[name]
	return s, ok
}

// Elements returns all elements ordered by symbol.
func (c *Catalog) Elements() []*Element {
	out := make([]*Element, 0, len(c.elements))
	for _, el := range c.elements {
		out = append(out, el)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Substances returns all substances ordered by name.
func (c *Catalog) Substances() []*Substance {
	out := make([]*Substance, 0, len(c.substances))
	for _, s := range c.substances {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Reactions returns all reactions in registration order.
func (c *Catalog) Reactions() []*Reaction {
	return c.reactions
}
