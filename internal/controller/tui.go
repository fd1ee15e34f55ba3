package controller

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	m "github.com/symup/symup/internal/model"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	subtleStyle  = lipgloss.NewStyle().Faint(true)
	summaryStyle = lipgloss.NewStyle().MarginTop(1)
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer

	mu       sync.Mutex
	program  *tea.Program
	finished chan struct{}
}

// NewTUI creates a new TUI writing to output.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// DisplayInjectPreview prints one dry-run preview line.
func (p *TUI) DisplayInjectPreview(jsPath m.Path, id m.SourceMapID) {
	fmt.Fprintf(p.output, "%s would inject %s into %s\n",
		subtleStyle.Render("[dry run]"), okStyle.Render(string(id)), jsPath)
}

// DisplayInjectSummary prints the injection counts.
func (p *TUI) DisplayInjectSummary(summary m.InjectSummary) {
	var b strings.Builder

	b.WriteString(headerStyle.Render("injection summary"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  scripts found  %d\n", summary.ScriptsFound)
	fmt.Fprintf(&b, "  maps found     %d\n", summary.MapsFound)
	fmt.Fprintf(&b, "  injected       %s\n", okStyle.Render(fmt.Sprintf("%d", summary.Injected)))
	fmt.Fprintf(&b, "  skipped        %d\n", summary.Skipped)

	if len(summary.Failures) > 0 {
		fmt.Fprintf(&b, "  failed         %s\n", failStyle.Render(fmt.Sprintf("%d", len(summary.Failures))))

		for _, failure := range summary.Failures {
			fmt.Fprintf(&b, "    %s: %v\n", failure.Path, failure.Err)
		}
	}

	if summary.TempRemoved > 0 {
		fmt.Fprintf(&b, "  temp files removed  %d\n", summary.TempRemoved)
	}

	fmt.Fprint(p.output, summaryStyle.Render(b.String())+"\n")
}

// DisplayUploadStart spins up the live progress program for the batch.
func (p *TUI) DisplayUploadStart(kind m.ArtifactKind, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	model := newUploadModel(kind, total)
	p.program = tea.NewProgram(model, tea.WithOutput(p.output))
	p.finished = make(chan struct{})

	go func(program *tea.Program, finished chan struct{}) {
		_, _ = program.Run()
		close(finished)
	}(p.program, p.finished)
}

// DisplayUploadResult advances the progress bar by one file.
func (p *TUI) DisplayUploadResult(path m.Path, err error) {
	p.mu.Lock()
	program := p.program
	p.mu.Unlock()

	if program == nil {
		return
	}

	program.Send(uploadResultMsg{path: path, err: err})
}

// DisplayUploadSummary stops the progress program and prints the outcome.
func (p *TUI) DisplayUploadSummary(kind m.ArtifactKind, uploaded int, failures []m.FileFailure) {
	p.mu.Lock()
	program := p.program
	finished := p.finished
	p.program = nil
	p.finished = nil
	p.mu.Unlock()

	if program != nil {
		program.Send(uploadDoneMsg{})
		<-finished
	}

	if len(failures) == 0 {
		fmt.Fprintf(p.output, "%s uploaded %d %s artifact(s)\n", okStyle.Render("✓"), uploaded, kind)
		return
	}

	fmt.Fprintf(p.output, "%s uploaded %d %s artifact(s), %d failed\n",
		failStyle.Render("✗"), uploaded, kind, len(failures))

	for _, failure := range failures {
		fmt.Fprintf(p.output, "  %s: %v\n", failure.Path, failure.Err)
	}
}

// DisplayVerifyWarning surfaces a verifier message.
func (p *TUI) DisplayVerifyWarning(message string) {
	if message == "" {
		return
	}

	p.mu.Lock()
	program := p.program
	p.mu.Unlock()

	if program != nil {
		program.Send(uploadWarningMsg{message: message})
		return
	}

	fmt.Fprintf(p.output, "%s %s\n", warnStyle.Render("warning:"), message)
}

// DisplayArtifacts renders the artifact list, paginating interactively
// when it does not fit the terminal.
func (p *TUI) DisplayArtifacts(artifacts []m.Artifact) error {
	model := newArtifactListModel(artifacts)

	if f, ok := p.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model.width = width
			model.height = height
		}
	}

	if !model.needsPagination() {
		_, err := fmt.Fprint(p.output, model.View())
		return err
	}

	program := tea.NewProgram(model, tea.WithOutput(p.output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

// uploadResultMsg reports one finished upload to the progress model.
type uploadResultMsg struct {
	path m.Path
	err  error
}

// uploadWarningMsg carries a verifier warning into the progress view.
type uploadWarningMsg struct {
	message string
}

// uploadDoneMsg tells the progress model to quit.
type uploadDoneMsg struct{}

// uploadModel renders a spinner, a progress bar and the most recent
// per-file outcomes while a batch is in flight.
type uploadModel struct {
	kind     m.ArtifactKind
	total    int
	done     int
	failed   int
	lastPath m.Path
	lastErr  error
	warnings []string

	spin spinner.Model
	bar  progress.Model
}

func newUploadModel(kind m.ArtifactKind, total int) uploadModel {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return uploadModel{
		kind:  kind,
		total: total,
		spin:  s,
		bar:   progress.New(progress.WithDefaultGradient()),
	}
}

func (um uploadModel) Init() tea.Cmd {
	return um.spin.Tick
}

func (um uploadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case uploadResultMsg:
		um.done++
		um.lastPath = msg.path
		um.lastErr = msg.err

		if msg.err != nil {
			um.failed++
		}

		return um, um.bar.SetPercent(float64(um.done) / float64(um.total))

	case uploadWarningMsg:
		um.warnings = append(um.warnings, msg.message)
		return um, nil

	case uploadDoneMsg:
		return um, tea.Quit

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return um, tea.Quit
		}

		return um, nil

	case progress.FrameMsg:
		bar, cmd := um.bar.Update(msg)
		um.bar = bar.(progress.Model)

		return um, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		um.spin, cmd = um.spin.Update(msg)

		return um, cmd
	}

	return um, nil
}

func (um uploadModel) View() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s uploading %s artifacts  %d/%d\n",
		um.spin.View(), um.kind, um.done, um.total)
	b.WriteString(um.bar.View())
	b.WriteString("\n")

	if um.lastPath != "" {
		if um.lastErr != nil {
			fmt.Fprintf(&b, "%s %s: %v\n", failStyle.Render("✗"), um.lastPath, um.lastErr)
		} else {
			fmt.Fprintf(&b, "%s %s\n", okStyle.Render("✓"), um.lastPath)
		}
	}

	for _, warning := range um.warnings {
		fmt.Fprintf(&b, "%s %s\n", warnStyle.Render("!"), warning)
	}

	return b.String()
}

// artifactListModel is the paginated artifact list.
type artifactListModel struct {
	artifacts []m.Artifact
	height    int
	width     int
	offset    int
	quitting  bool
}

func newArtifactListModel(artifacts []m.Artifact) artifactListModel {
	return artifactListModel{artifacts: artifacts}
}

func (am artifactListModel) Init() tea.Cmd {
	return nil
}

func (am artifactListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		am.height = msg.Height
		am.width = msg.Width

		return am, nil

	case tea.KeyMsg:
		return am.handleKeyPress(msg)
	}

	return am, nil
}

func (am artifactListModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		am.quitting = true
		return am, tea.Quit
	default:
	}

	switch msg.String() {
	case "q":
		am.quitting = true
		return am, tea.Quit

	case "down", "j":
		am.offset = min(am.offset+1, am.maxOffset())
		return am, nil

	case "up", "k":
		am.offset = max(am.offset-1, 0)
		return am, nil

	case "g", "home":
		am.offset = 0
		return am, nil

	case "G", "end":
		am.offset = am.maxOffset()
		return am, nil

	case "d", "pgdown":
		am.offset = min(am.offset+am.itemsPerPage(), am.maxOffset())
		return am, nil

	case "u", "pgup":
		am.offset = max(am.offset-am.itemsPerPage(), 0)
		return am, nil
	}

	return am, nil
}

// itemsPerPage calculates how many rows fit on screen, reserving space
// for the header, totals and navigation help.
func (am artifactListModel) itemsPerPage() int {
	if am.height == 0 {
		return 10
	}

	reserved := 8

	available := am.height - reserved
	if available < 1 {
		return 1
	}

	return available
}

func (am artifactListModel) maxOffset() int {
	maxOff := len(am.artifacts) - am.itemsPerPage()
	if maxOff < 0 {
		return 0
	}

	return maxOff
}

func (am artifactListModel) needsPagination() bool {
	if len(am.artifacts) == 0 {
		return false
	}

	return len(am.artifacts) > am.itemsPerPage() && am.height > 0
}

func (am artifactListModel) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("uploaded artifacts"))
	b.WriteString("\n\n")

	if len(am.artifacts) == 0 {
		b.WriteString("  no artifacts found\n")
		return b.String()
	}

	start := am.offset
	end := min(start+am.itemsPerPage(), len(am.artifacts))

	display := am.artifacts
	paginated := am.needsPagination()

	if paginated {
		display = am.artifacts[start:end]
	}

	for _, a := range display {
		fmt.Fprintf(&b, "  %s  %-16s %-28s %s\n",
			a.UploadedAt.Format("2006-01-02 15:04"),
			a.Kind, a.Name,
			subtleStyle.Render(a.ID))
	}

	fmt.Fprintf(&b, "\n  total: %d artifact(s)\n", len(am.artifacts))

	if paginated {
		fmt.Fprintf(&b, "  showing %d-%d of %d\n", start+1, end, len(am.artifacts))
		b.WriteString(subtleStyle.Render("  ↑/k: up | ↓/j: down | g: top | G: bottom | q: quit"))
		b.WriteString("\n")
	}

	return b.String()
}
