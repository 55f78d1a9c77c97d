package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"midimon/midi"
	"midimon/monitor"
	"midimon/theme"
	"midimon/widgets"
)

const (
	appName    = "midimon"
	appVersion = "v0.1"
	lineWidth  = 28
)

var keyBindings = []widgets.KeySection{
	{Title: "History", Keys: []widgets.KeyBinding{
		{Key: "up / k", Desc: "scroll to newer messages"},
		{Key: "down / j", Desc: "scroll to older messages"},
		{Key: "enter / c", Desc: "clear history"},
	}},
	{Title: "App", Keys: []widgets.KeyBinding{
		{Key: "?", Desc: "toggle this help"},
		{Key: "q / esc", Desc: "exit"},
	}},
}

var footerKeys = []widgets.KeyBinding{
	{Key: "↑↓", Desc: "scroll"},
	{Key: "enter", Desc: "clear"},
	{Key: "?", Desc: "help"},
	{Key: "q", Desc: "exit"},
}

type Model struct {
	Monitor   *monitor.Monitor
	DeviceMgr *midi.DeviceManager // nil in replay mode
	Decoder   *midi.Decoder
	Theme     *theme.Theme
	ctx       context.Context
	sources   []string
	showHelp  bool
	quitting  bool
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

type monitorDoneMsg struct{}

func NewModel(ctx context.Context, mon *monitor.Monitor, deviceMgr *midi.DeviceManager, dec *midi.Decoder, th *theme.Theme) Model {
	return Model{
		Monitor:   mon,
		DeviceMgr: deviceMgr,
		Decoder:   dec,
		Theme:     th,
		ctx:       ctx,
	}
}

// WithSource lists a source that was attached outside the device manager
func (m Model) WithSource(id string) Model {
	m.sources = append(m.sources, id)
	return m
}

func ListenForUpdates(mon *monitor.Monitor) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-mon.Updates():
			return UpdateMsg{}
		case <-mon.Done():
			return monitorDoneMsg{}
		}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ListenForUpdates(m.Monitor)}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

// post hands a key to the monitor loop without blocking the UI
func (m Model) post(key monitor.Key) tea.Cmd {
	return func() tea.Msg {
		m.Monitor.Post(m.ctx, monitor.KeyEvent{Key: key})
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Sequence(m.post(monitor.KeyBack), tea.Quit)

		case "up", "k":
			return m, m.post(monitor.KeyUp)

		case "down", "j":
			return m, m.post(monitor.KeyDown)

		case "enter", "c", " ":
			return m, m.post(monitor.KeyOk)

		case "?":
			m.showHelp = !m.showHelp
		}

	case UpdateMsg:
		return m, ListenForUpdates(m.Monitor)

	case monitorDoneMsg:
		m.quitting = true
		return m, tea.Quit

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		switch event.Type {
		case midi.DeviceConnected:
			m.sources = append(m.sources, event.ID)
			go m.Monitor.Feed(m.ctx, event.Source, m.Decoder)
		case midi.DeviceDisconnected:
			m.sources = removeID(m.sources, event.ID)
		}

		connected := event.Count > 0
		post := func() tea.Msg {
			m.Monitor.Post(m.ctx, monitor.USBStatusEvent{Connected: connected})
			return nil
		}
		return m, tea.Batch(post, ListenForDevices(m.DeviceMgr))
	}

	return m, nil
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, s := range ids {
		if s != id {
			out = append(out, s)
		}
	}
	return out
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	view := m.Monitor.Snapshot()

	// Styles
	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	okStyle := lipgloss.NewStyle().Foreground(m.Theme.Success())
	waitStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	header := headerStyle.Render(appName) + " " + dimStyle.Render(appVersion)

	status := waitStyle.Render(fmt.Sprintf("%c USB: Waiting...", m.Theme.Symbols.Waiting))
	if view.USBConnected {
		status = okStyle.Render(fmt.Sprintf("%c USB: Connected", m.Theme.Symbols.Connected))
	}
	if len(m.sources) > 0 {
		status += dimStyle.Render("  " + strings.Join(m.sources, ", "))
	}

	rows := make([]widgets.HistoryRow, len(view.Lines))
	for i, line := range view.Lines {
		rows[i] = widgets.HistoryRow{Text: line, Color: m.Theme.KindColor(uint8(view.Kinds[i]))}
	}
	history := widgets.RenderHistory(rows, view.MoreAbove, view.MoreBelow, "Waiting for MIDI...", widgets.HistoryStyle{
		Rows:        monitor.WindowSize,
		Width:       lineWidth,
		Arrow:       headerStyle,
		Placeholder: dimStyle,
		UpSymbol:    m.Theme.Symbols.MoreAbove,
		DownSymbol:  m.Theme.Symbols.MoreBelow,
	})

	counts := dimStyle.Render(fmt.Sprintf("%d/%d  rx:%d  sysex:%d  drop:%d",
		view.Offset+len(view.Lines), view.Len, view.Received, view.SysExCompleted, view.Dropped))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n")
	out.WriteString(status)
	out.WriteString("\n\n")
	out.WriteString(history)
	out.WriteString("\n\n")
	out.WriteString(counts)
	out.WriteString("\n")

	if m.showHelp {
		out.WriteString("\n")
		out.WriteString(widgets.RenderKeyHelp(keyBindings))
		out.WriteString("\n")
	} else {
		out.WriteString(dimStyle.Render(widgets.RenderKeyLine(footerKeys)))
	}

	return out.String()
}
