package client

// entry pairs a registered controller with whether it has completed at
// least one refresh.
type entry struct {
	controller Controller
	refreshed  bool
}

// container is an ordered mapping from controller name to its entry.
// Insertion order is refresh order.
type container struct {
	order   []string
	entries map[string]*entry
}

func newContainer() *container {
	return &container{entries: make(map[string]*entry)}
}

// add registers c at the end of the refresh order.
func (c *container) add(ctrl Controller) {
	name := ctrl.Name()
	if _, exists := c.entries[name]; exists {
		return
	}
	c.order = append(c.order, name)
	c.entries[name] = &entry{controller: ctrl}
}

// len reports the number of registered controllers.
func (c *container) len() int { return len(c.order) }

// each calls fn for every controller in insertion order.
func (c *container) each(fn func(i int, ctrl Controller)) {
	for i, name := range c.order {
		fn(i, c.entries[name].controller)
	}
}

func (c *container) setRefreshed(name string, refreshed bool) {
	if e, ok := c.entries[name]; ok {
		e.refreshed = refreshed
	}
}

func (c *container) get(name string) (Controller, bool) {
	e, ok := c.entries[name]
	if !ok {
		return nil, false
	}
	return e.controller, true
}
