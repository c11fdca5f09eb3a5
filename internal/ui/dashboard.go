package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jasata/pithermon/internal/format"
	"github.com/jasata/pithermon/internal/model"
	"github.com/jasata/pithermon/internal/sampler"
)

// hardLimitC is the firmware's over-temperature threshold; the thermal
// gauges are scaled against it.
const hardLimitC = 85.0

// Model renders live samples from the monitor's stream.
type Model struct {
	id     sampler.Identity
	stream <-chan model.Sample
	latest model.Sample
	width  int
	height int
}

func New(id sampler.Identity, stream <-chan model.Sample) *Model {
	return &Model{
		id:     id,
		stream: stream,
		width:  120,
		height: 40,
	}
}

type tickMsg struct{}

func tickCmd() tea.Cmd { return tea.Tick(time.Second/5, func(time.Time) tea.Msg { return tickMsg{} }) }

func (m *Model) Init() tea.Cmd { return tickCmd() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tickMsg:
		select {
		case samp, ok := <-m.stream:
			if ok {
				m.latest = samp
			}
		default:
		}
		return m, tickCmd()
	}
	return m, nil
}

// Styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	alertStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	gaugeFill   = "█"
	gaugeEmpty  = "░"
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1).
			MarginRight(1)
)

func (m *Model) View() string {
	s := m.latest
	header := titleStyle.Render("Raspberry Pi Thermal Monitor") + "  " +
		subtleStyle.Render("up "+format.Clock(s.Elapsed))

	cpuCard := card("CPU",
		fmt.Sprintf("%s\n%s  %.2f V  %6.1f MHz",
			tempGauge(s.CPUTemp, 24),
			loadGauge(s.CPULoad, 24),
			s.CPUVolts, s.CPUFreq))

	gpuCard := card("GPU", tempGauge(s.GPUTemp, 24))

	thrCard := card("Throttling", throttleBody(s.Throttle))
	devCard := card("Device", deviceBody(m.id))

	line1 := lipgloss.JoinHorizontal(lipgloss.Top, cpuCard, gpuCard)
	line2 := lipgloss.JoinHorizontal(lipgloss.Top, thrCard, devCard)
	help := subtleStyle.Render("q to quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, line1, line2, help)
}

// Helpers
func bar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int((pct / 100) * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat(gaugeFill, filled) + strings.Repeat(gaugeEmpty, width-filled)
}

func loadGauge(pct float64, width int) string {
	return fmt.Sprintf("[%s] %5.1f%%", bar(pct, width), pct)
}

func tempGauge(t float64, width int) string {
	g := fmt.Sprintf("[%s] %4.1f°C", bar(t/hardLimitC*100, width), t)
	if t >= hardLimitC {
		return alertStyle.Render(g)
	}
	return g
}

func card(title, body string) string {
	titleStr := labelStyle.Render(title)
	content := titleStr + "\n" + body
	return cardStyle.Render(content)
}

func throttleBody(w model.ThrottleWord) string {
	st := w.Decode()
	rows := []struct {
		label     string
		now, ever bool
	}{
		{"Under-voltage", st.UnderVoltage, st.UnderVoltageOccurred},
		{"ARM freq capped", st.FreqCapped, st.FreqCapOccurred},
		{"Throttled", st.Throttled, st.ThrottledOccurred},
		{"Soft temp limit", st.SoftLimit, st.SoftLimitOccurred},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "0x%05X [%s]\n", uint32(w), w.Tag())
	for i, r := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-16s %s %s", r.label, flagCell(r.now, "NOW", alertStyle), flagCell(r.ever, "seen", warnStyle))
	}
	return b.String()
}

func flagCell(set bool, label string, style lipgloss.Style) string {
	if set {
		return style.Render(label)
	}
	return subtleStyle.Render(strings.Repeat("-", len(label)))
}

func deviceBody(id sampler.Identity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s rev %s\n", id.Model, id.Revision)
	fmt.Fprintf(&b, "serial %s\n", id.Serial)
	fmt.Fprintf(&b, "%s %s, %d cores (%s)\n", id.OS, id.Kernel, id.Cores, id.Arch)
	b.WriteString(truncate(id.FirmwareLine(), 48))
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// RunDashboard runs the full-screen dashboard until the user quits or ctx
// is cancelled. Cancellation of the surrounding run is a clean exit.
func RunDashboard(ctx context.Context, id sampler.Identity, stream <-chan model.Sample) error {
	prog := tea.NewProgram(New(id, stream), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := prog.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
