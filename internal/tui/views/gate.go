package views

import tea "github.com/charmbracelet/bubbletea"

// gate allows one domain call per view at a time. While a call runs the
// domain object belongs to its command and the view renders its snapshot.
type gate struct {
	busy    bool
	pending []func() tea.Cmd
}

// run starts fn unless a call is already in flight.
func (g *gate) run(fn tea.Cmd) tea.Cmd {
	if g.busy {
		return nil
	}
	g.busy = true
	return fn
}

// queue runs next now, or once the in-flight call and anything queued
// before it have finished.
func (g *gate) queue(next func() tea.Cmd) tea.Cmd {
	if g.busy {
		g.pending = append(g.pending, next)
		return nil
	}
	return next()
}

// done releases the gate and runs queued work until one of them starts a
// new call.
func (g *gate) done() tea.Cmd {
	g.busy = false
	var cmds []tea.Cmd
	for len(g.pending) > 0 && !g.busy {
		next := g.pending[0]
		g.pending = g.pending[1:]
		cmds = append(cmds, next())
	}
	return tea.Batch(cmds...)
}
