package caster

// Composite is a group node that unions the casters beneath it into one
// root. Composites nest; casters join the top-most enabled composite above
// them.
type Composite struct {
	id      ID
	name    string
	parent  *Composite
	enabled bool
}

// NewComposite creates a disabled composite under parent (nil for none).
func NewComposite(name string, parent *Composite) *Composite {
	return &Composite{id: NewID(), name: name, parent: parent}
}

// ID returns the composite's group id.
func (c *Composite) ID() ID { return c.id }

// Name returns the composite's name.
func (c *Composite) Name() string { return c.name }

// Parent returns the enclosing composite, or nil at the top.
func (c *Composite) Parent() *Composite { return c.parent }

// Enabled reports whether the composite is registered as a group root.
func (c *Composite) Enabled() bool { return c.enabled }

// SetParent moves the composite under p. Members regroup on their next update.
func (c *Composite) SetParent(p *Composite) { c.parent = p }

// Enable registers the composite as a group root.
func (c *Composite) Enable(reg *Registry) {
	c.enabled = true
	reg.AddGroup(c.id)
}

// Disable unregisters the composite. Its members re-parent on their next
// update.
func (c *Composite) Disable(reg *Registry) {
	c.enabled = false
	reg.RemoveGroup(c.id)
}

// TopMost walks from c up through its parents and returns the highest
// enabled composite, or nil if none is enabled.
func TopMost(c *Composite) *Composite {
	var top *Composite
	for n := c; n != nil; n = n.parent {
		if n.enabled {
			top = n
		}
	}
	return top
}
