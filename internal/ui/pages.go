package ui

import (
	"fmt"

	"github.com/derailed/tview"
	"github.com/gridbind/gridbind/internal/model"
)

// Pages represents the stack of views shown in the content area.
type Pages struct {
	*tview.Pages
	*model.Stack
}

// NewPages returns a new pages manager.
func NewPages() *Pages {
	p := Pages{
		Pages: tview.NewPages(),
		Stack: model.NewStack(),
	}
	p.Stack.AddListener(&p)

	return &p
}

// Current returns the top component, if any.
func (p *Pages) Current() Component {
	c, _ := p.Top().(Component)
	return c
}

// StackSize returns the stack depth.
func (p *Pages) StackSize() int {
	return len(p.Peek())
}

// Show displays an overlay that is not part of the navigation stack.
func (p *Pages) Show(name string, c tview.Primitive) {
	p.AddPage(name, c, true, true)
}

// Dismiss removes an overlay.
func (p *Pages) Dismiss(name string) {
	p.RemovePage(name)
}

// StackPushed adds the component page and shows it.
func (p *Pages) StackPushed(c model.Component) {
	prim, ok := c.(tview.Primitive)
	if !ok {
		return
	}
	p.AddPage(componentID(c), prim, true, true)
}

// StackPopped removes the old page and restarts the new top.
func (p *Pages) StackPopped(o, top model.Component) {
	p.RemovePage(componentID(o))
	if top == nil {
		return
	}
	p.SwitchToPage(componentID(top))
	if i, ok := top.(Igniter); ok {
		i.Start()
	}
}

// StackTop brings the top page to the front.
func (p *Pages) StackTop(top model.Component) {
	if top == nil {
		return
	}
	p.SwitchToPage(componentID(top))
}

func componentID(c model.Component) string {
	return fmt.Sprintf("%s-%p", c.Name(), c)
}
