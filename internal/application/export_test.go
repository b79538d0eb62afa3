package application

// SetIDGenerator replaces the ID source so tests get predictable IDs.
func (c *ServiceCatalog) SetIDGenerator(fn func() string) {
	c.newID = fn
}
