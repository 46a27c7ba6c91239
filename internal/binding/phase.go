package binding

import "strings"

// phase flags the reentrant steps a currency manager is in. Steps nest, so
// the set is a bit mask; each guard restores its own bit on exit.
type phase uint8

const (
	// phaseEndingEdit: EndCurrentEdit runs inside a position change.
	// Current-changed notifications and item-change pushes are held.
	phaseEndingEdit phase = 1 << iota

	// phasePulling: editors are writing into the list. Pushes are dropped.
	phasePulling

	// phasePushing: rows are being pushed into editors. Nested pushes are dropped.
	phasePushing

	// phaseDispatching: a list notification is being handled.
	// Current-changed notifications do not push.
	phaseDispatching
)

var phaseNames = []struct {
	p    phase
	name string
}{
	{phaseEndingEdit, "ending-edit"},
	{phasePulling, "pulling"},
	{phasePushing, "pushing"},
	{phaseDispatching, "dispatching"},
}

func (p phase) String() string {
	if p == 0 {
		return "idle"
	}
	var ss []string
	for _, n := range phaseNames {
		if p&n.p != 0 {
			ss = append(ss, n.name)
		}
	}
	return strings.Join(ss, "|")
}

func (p phase) has(q phase) bool {
	return p&q != 0
}

// enter sets p and returns a func restoring the previous state of p.
func (c *CurrencyManager) enter(p phase) func() {
	held := c.phase & p
	c.phase |= p
	return func() {
		c.phase = c.phase&^p | held
	}
}
