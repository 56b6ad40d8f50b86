// Package viz provides a live terminal view of a running simulation: step
// progress, the current center of mass, and a drift trace over completed
// steps.
package viz

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravlab/internal/diag"
	"github.com/san-kum/gravlab/internal/sim"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

// StepMsg carries one completed step's diagnostic.
type StepMsg struct {
	Step int
	COM  diag.Vec3
}

// DoneMsg carries the final result (or the setup error) once the run ends.
type DoneMsg struct {
	Result *sim.Result
	Err    error
}

// Model is the bubbletea model for a live run.
type Model struct {
	cfg     sim.Config
	msgs    chan tea.Msg
	step    int
	com     diag.Vec3
	initial diag.Vec3
	haveCOM bool
	drift   []float64
	result  *sim.Result
	err     error
	done    bool
}

// NewModel prepares a live view for cfg. The run starts when the program
// starts.
func NewModel(cfg sim.Config) Model {
	return Model{
		cfg:   cfg,
		msgs:  make(chan tea.Msg, 64),
		drift: make([]float64, 0, cfg.Steps+1),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.startRun, m.waitForMsg)
}

// startRun drives the simulation on its own goroutine, forwarding each
// step diagnostic into the model's channel.
func (m Model) startRun() tea.Msg {
	go func() {
		driver := sim.NewDriver(m.cfg)
		driver.AddObserver(sim.ObserverFunc(func(step int, com diag.Vec3) {
			m.msgs <- StepMsg{Step: step, COM: com}
		}))
		if err := driver.Setup(); err != nil {
			m.msgs <- DoneMsg{Err: err}
			return
		}
		result, err := driver.Run()
		m.msgs <- DoneMsg{Result: result, Err: err}
	}()
	return nil
}

func (m Model) waitForMsg() tea.Msg {
	return <-m.msgs
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case StepMsg:
		m.step = msg.Step
		m.com = msg.COM
		if !m.haveCOM {
			m.initial = msg.COM
			m.haveCOM = true
		}
		dx := msg.COM.X - m.initial.X
		dy := msg.COM.Y - m.initial.Y
		dz := msg.COM.Z - m.initial.Z
		m.drift = append(m.drift, math.Sqrt(dx*dx+dy*dy+dz*dz))
		return m, m.waitForMsg
	case DoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("gravlab — %d particles, %d steps", m.cfg.Particles, m.cfg.Steps)))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errStyle.Render("error: " + m.err.Error()))
		b.WriteString(helpStyle.Render("\npress q to quit"))
		return b.String()
	}

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	row("step", fmt.Sprintf("%d / %d", m.step, m.cfg.Steps))
	row("centre of mass", m.com.String())
	if m.done && m.result != nil {
		row("elapsed", m.result.Elapsed.String())
		row("momentum", m.result.Momentum.String())
		row("kinetic energy", fmt.Sprintf("%g", m.result.KineticEnergy))
	}

	if len(m.drift) > 1 {
		graph := asciigraph.Plot(m.drift,
			asciigraph.Height(8),
			asciigraph.Width(70),
			asciigraph.Caption("centre-of-mass drift"),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	if m.done {
		b.WriteString(helpStyle.Render("run complete — press q to quit"))
	} else {
		b.WriteString(helpStyle.Render("press q to quit (the run itself always finishes)"))
	}
	return b.String()
}
