package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"motiffinder/internal/config"
	"motiffinder/internal/fasta"
	"motiffinder/internal/finder"
	"motiffinder/internal/logging"
	"motiffinder/internal/render"
)

// Styles
var (
	surfaceColor = lipgloss.Color("#1F2937") // Dark gray

	containerStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(render.BorderColor)

	titleStyle = lipgloss.NewStyle().
			Foreground(render.PrimaryColor).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(render.TextColor).
			Background(surfaceColor).
			Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().Foreground(render.MutedColor)

	toggleOnStyle  = lipgloss.NewStyle().Foreground(render.SuccessColor).Bold(true)
	toggleOffStyle = lipgloss.NewStyle().Foreground(render.MutedColor)
)

// motifItem is one row of the alignment list.
type motifItem struct {
	index int
	motif string
}

func (i motifItem) FilterValue() string { return i.motif }
func (i motifItem) Title() string       { return fmt.Sprintf("Seq %d", i.index+1) }
func (i motifItem) Description() string { return i.motif }

type model struct {
	list      list.Model
	finder    *finder.Finder
	sequences []string
	source    string
	k         int
	algorithm int
	view      render.View
	result    *finder.Result
	warning   string
	showHelp  bool
	width     int
	height    int
}

func initialModel(seqs []string, source string, cfg *config.Config, logger *log.Logger) model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Motif Alignment"
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(true)

	alignment, consensus, pwm, logo := cfg.View()
	algIdx := 0
	if alg, err := finder.ParseAlgorithm(cfg.Algorithm); err == nil {
		for i, a := range finder.Algorithms {
			if a == alg {
				algIdx = i
			}
		}
	}
	return model{
		list: l,
		finder: finder.New(finder.Options{
			MinMotifLength: cfg.MinMotifLength,
			MaxMotifLength: cfg.MaxMotifLength,
			MaxWorkload:    cfg.MaxWorkload,
		}, logger),
		sequences: seqs,
		source:    source,
		k:         cfg.MotifLength,
		algorithm: algIdx,
		view:      render.View{Alignment: alignment, Consensus: consensus, PWM: pwm, Logo: logo},
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

// adjustK moves the motif length by delta, staying inside the finder's range.
func (m model) adjustK(delta int) model {
	opts := m.finder.Options()
	k := m.k + delta
	if k < opts.MinMotifLength {
		k = opts.MinMotifLength
	}
	if opts.MaxMotifLength > 0 && k > opts.MaxMotifLength {
		k = opts.MaxMotifLength
	}
	m.k = k
	return m
}

func (m model) cycleAlgorithm() model {
	m.algorithm = (m.algorithm + 1) % len(finder.Algorithms)
	return m
}

func (m model) runSearch() model {
	req := finder.Request{
		Sequences:   m.sequences,
		MotifLength: m.k,
		Algorithm:   string(finder.Algorithms[m.algorithm]),
	}
	res, err := m.finder.Run(req)
	if err != nil {
		m.result = nil
		m.warning = finder.Warning(err)
		if m.warning == "" {
			m.warning = err.Error()
		}
		m.list.SetItems(nil)
		return m
	}
	m.result = res
	m.warning = ""
	items := make([]list.Item, len(res.Motifs))
	for i, mo := range res.Motifs {
		items[i] = motifItem{index: i, motif: mo}
	}
	m.list.SetItems(items)
	return m
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// list panel takes 1/3 of the width
		m.list.SetWidth(msg.Width / 3)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "h":
			m.showHelp = !m.showHelp
			return m, nil
		case "+", "=":
			return m.adjustK(1), nil
		case "-", "_":
			return m.adjustK(-1), nil
		case "a":
			return m.cycleAlgorithm(), nil
		case "enter", "r":
			return m.runSearch(), nil
		case "1":
			m.view.Alignment = !m.view.Alignment
			return m, nil
		case "2":
			m.view.Consensus = !m.view.Consensus
			return m, nil
		case "3":
			m.view.PWM = !m.view.PWM
			return m, nil
		case "4":
			m.view.Logo = !m.view.Logo
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelpModal()
	}
	main := lipgloss.JoinHorizontal(lipgloss.Top, m.renderLeftPanel(), m.renderRightPanel())
	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m model) renderLeftPanel() string {
	return containerStyle.
		Width(m.width/3 - 2).
		Height(m.height - 4).
		Render(m.list.View())
}

func (m model) renderRightPanel() string {
	return containerStyle.
		Width(m.width*2/3 - 2).
		Height(m.height - 4).
		Render(m.rightContent())
}

func (m model) rightContent() string {
	header := titleStyle.Render(fmt.Sprintf("DNA Motif Finder - %s", m.source))
	toggles := strings.Join([]string{
		toggle("1 alignment", m.view.Alignment),
		toggle("2 consensus", m.view.Consensus),
		toggle("3 pwm", m.view.PWM),
		toggle("4 logo", m.view.Logo),
	}, "  ")

	var body string
	switch {
	case m.warning != "":
		body = render.Warning(m.warning)
	case m.result != nil:
		// the alignment already sits in the list panel
		v := m.view
		v.Alignment = false
		body = render.Report(m.result, v)
	default:
		body = mutedStyle.Render(fmt.Sprintf("%d sequences loaded. Press enter to run.", len(m.sequences)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, toggles, "", body)
}

func toggle(label string, on bool) string {
	if on {
		return toggleOnStyle.Render("[x] " + label)
	}
	return toggleOffStyle.Render("[ ] " + label)
}

func (m model) renderStatusBar() string {
	left := fmt.Sprintf("%d sequences", len(m.sequences))
	center := fmt.Sprintf("k=%d  %s", m.k, finder.Algorithms[m.algorithm])
	right := "Press 'h' for help • 'q' to quit"

	spacing := m.width - len(left) - len(center) - len(right) - 6
	var content string
	if spacing > 0 {
		content = left + strings.Repeat(" ", spacing/2) + center + strings.Repeat(" ", spacing-spacing/2) + right
	} else {
		content = left + " | " + center
	}
	return statusBarStyle.Width(m.width).Render(content)
}

func (m model) renderHelpModal() string {
	opts := m.finder.Options()
	helpContent := fmt.Sprintf(`DNA Motif Finder - Help

Search:
  + / -        Motif length (%d-%d)
  a            Cycle algorithm
  Enter, r     Run motif finder

Views:
  1            Toggle motif alignment
  2            Toggle consensus motif
  3            Toggle position weight matrix
  4            Toggle sequence logo

General:
  ↑/↓, j/k     Navigate motifs
  /            Filter motifs
  h            Toggle this help
  q, Ctrl+C    Quit application
`, opts.MinMotifLength, opts.MaxMotifLength)

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(render.PrimaryColor).
		Padding(1, 2).
		Background(surfaceColor).
		Foreground(render.TextColor).
		Width(60).
		Render(helpContent)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func main() {
	inputFlag := flag.String("in", "", "input file with one sequence per line (FASTA headers ignored)")
	configFlag := flag.String("config", "", "path to config.json (optional)")
	kFlag := flag.Int("k", 0, "initial motif length")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *inputFlag != "" {
		cfg.Input = *inputFlag
	}
	if *kFlag != 0 {
		cfg.MotifLength = *kFlag
	}
	if cfg.Input == "" {
		fmt.Fprintln(os.Stderr, "no input: pass -in or set input in config.json")
		os.Exit(1)
	}

	// the terminal belongs to the UI; logs only go to log_file
	logger, closeLog := logging.New(logging.Options{Out: io.Discard, LogFile: cfg.LogFile, Level: cfg.LogLevel})
	defer closeLog()

	f, err := os.Open(cfg.Input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open input: %v\n", err)
		os.Exit(1)
	}
	seqs, err := fasta.ReadSequences(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read input: %v\n", err)
		os.Exit(1)
	}
	logger.Info("loaded sequences", "path", cfg.Input, "sequences", len(seqs))

	p := tea.NewProgram(initialModel(seqs, cfg.Input, cfg, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v", err)
		os.Exit(1)
	}
}
