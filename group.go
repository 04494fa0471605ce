package weft

// Group is a handle for one fixed-width cooperative group on a device.
// Collective operations are methods on Group; each call is synchronous
// and covers the whole group at once. Divergent invocation is not a
// concept here because there is no per-lane entry point.
type Group struct {
	dev *Device
}

// LaneCount returns the number of lanes in the group.
func (g *Group) LaneCount() int {
	return LaneCount
}

// Device returns the device the group executes on.
func (g *Group) Device() *Device {
	return g.dev
}
