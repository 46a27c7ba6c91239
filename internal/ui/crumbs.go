// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"fmt"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/gridbind/gridbind/internal/model"
)

// Crumbs represents user breadcrumbs.
type Crumbs struct {
	*tview.TextView

	stack *model.Stack
}

// NewCrumbs returns a new breadcrumb view tracking a page stack.
func NewCrumbs(s *model.Stack) *Crumbs {
	c := &Crumbs{
		stack:    s,
		TextView: tview.NewTextView(),
	}
	c.SetBackgroundColor(tcell.ColorDefault)
	c.SetTextAlign(tview.AlignLeft)
	c.SetBorderPadding(0, 0, 1, 1)
	c.SetDynamicColors(true)

	return c
}

// StackPushed indicates a new item was added.
func (c *Crumbs) StackPushed(model.Component) {
	c.refresh(c.stack.Flatten())
}

// StackPopped indicates an item was deleted.
func (c *Crumbs) StackPopped(_, _ model.Component) {
	c.refresh(c.stack.Flatten())
}

// StackTop indicates the top of the stack.
func (*Crumbs) StackTop(model.Component) {}

func (c *Crumbs) refresh(crumbs []string) {
	c.Clear()
	last := len(crumbs) - 1

	for i, crumb := range crumbs {
		crumb = strings.ReplaceAll(strings.ToLower(crumb), " ", "")
		if i == last {
			_, _ = fmt.Fprintf(c, "[yellow:black:b] <%s> [-:-:-] ", crumb)
		} else {
			_, _ = fmt.Fprintf(c, "[gray::-] <%s> [-:-:-] ", crumb)
		}
	}
}
