//go:build !gui

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/metcalfc/skim/internal/config"
	"github.com/metcalfc/skim/internal/logging"
	"github.com/metcalfc/skim/internal/playback"
	"github.com/metcalfc/skim/internal/reader"
	"github.com/metcalfc/skim/internal/social"
)

const hintTTL = 1500 * time.Millisecond

var (
	erpStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF0000"))

	wordBeforeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	wordAfterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555"))

	contextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#444444"))

	contextCurrentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			Bold(true)

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)

	imageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AAFF")).
			Bold(true)

	completeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)
)

type model struct {
	player    *playback.Player
	gesture   *playback.Gesture
	social    *social.Dispatcher
	log       *slog.Logger
	article   reader.Article
	items     []reader.Item
	chapters  []reader.Chapter
	sentences []int

	keys     keyMap
	help     help.Model
	progress progress.Model
	comment  textinput.Model

	commenting bool
	hint       string
	hintID     int
	feedback   string
	feedbackID int
	quitting   bool
	width      int
	height     int
}

// fireMsg carries a playback timer callback into the update loop.
type fireMsg func()

type hintExpiredMsg int

type feedbackMsg string

type feedbackExpiredMsg int

type deps struct {
	clock      playback.Clock
	policy     playback.SeekPolicy
	scrubCells int
	social     *social.Dispatcher
	log        *slog.Logger
}

func newModel(article reader.Article, wpm int, d deps) model {
	if d.log == nil {
		d.log = slog.New(slog.DiscardHandler)
	}
	items, chapters := article.Items()
	player := playback.New(playback.Options{
		WPM:        wpm,
		SeekPolicy: d.policy,
		Clock:      d.clock,
		Logger:     d.log,
	})
	player.Load(items)

	comment := textinput.New()
	comment.Placeholder = "Write a comment..."
	comment.CharLimit = 280

	if d.social == nil {
		d.social = social.NewDispatcher(nil, d.log, nil)
	}

	return model{
		player:    player,
		gesture:   playback.NewGesture(player, float64(max(d.scrubCells, 1))),
		social:    d.social,
		log:       d.log,
		article:   article,
		items:     items,
		chapters:  chapters,
		sentences: reader.SentenceStarts(items),
		keys:      newKeyMap(),
		help:      help.New(),
		progress:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		comment:   comment,
		width:     80,
		height:    24,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fireMsg:
		msg()
		return m, nil

	case tea.KeyMsg:
		if m.commenting {
			return m.updateComment(msg)
		}
		return m.updateKey(msg)

	case tea.MouseMsg:
		switch msg.Action {
		case tea.MouseActionPress:
			if msg.Button == tea.MouseButtonLeft {
				m.gesture.Press(float64(msg.X))
			}
		case tea.MouseActionMotion:
			m.gesture.Drag(float64(msg.X))
		case tea.MouseActionRelease:
			m.gesture.Release()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(msg.Width-2, 10)
		m.help.Width = msg.Width
		return m, nil

	case hintExpiredMsg:
		if int(msg) == m.hintID {
			m.hint = ""
		}
		return m, nil

	case feedbackMsg:
		m.feedback = string(msg)
		m.feedbackID++
		id := m.feedbackID
		return m, tea.Tick(social.FeedbackTTL, func(time.Time) tea.Msg {
			return feedbackExpiredMsg(id)
		})

	case feedbackExpiredMsg:
		if int(msg) == m.feedbackID {
			m.feedback = ""
		}
		return m, nil
	}

	return m, nil
}

func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.player.Snapshot()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.log.Debug("quit", "mode", s.Mode, "index", s.Index)
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		m.player.Reset()
		return m, nil
	}

	if s.Mode == playback.Finished {
		switch {
		case key.Matches(msg, m.keys.Like):
			m.social.Like(m.article.Ref)
		case key.Matches(msg, m.keys.Comment):
			m.commenting = true
			cmd := m.comment.Focus()
			return m, cmd
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.player.Toggle()
	case key.Matches(msg, m.keys.Skip):
		m.player.SkipImage()
	case key.Matches(msg, m.keys.Back):
		return m.seek(s, -5)
	case key.Matches(msg, m.keys.Forward):
		return m.seek(s, 5)
	case key.Matches(msg, m.keys.BackFar):
		return m.seek(s, -10)
	case key.Matches(msg, m.keys.ForwardFar):
		return m.seek(s, 10)
	case key.Matches(msg, m.keys.PrevSentence):
		return m.seek(s, reader.PrevSentence(m.sentences, s.Index)-s.Index)
	case key.Matches(msg, m.keys.NextSentence):
		return m.seek(s, reader.NextSentence(m.sentences, s.Index, s.Total)-s.Index)
	case key.Matches(msg, m.keys.PrevChapter):
		return m.seek(s, reader.PrevChapter(m.chapters, s.Index)-s.Index)
	case key.Matches(msg, m.keys.NextChapter):
		return m.seek(s, reader.NextChapter(m.chapters, s.Index)-s.Index)
	case key.Matches(msg, m.keys.Faster):
		m.player.SetWPM(s.WPM + 25)
	case key.Matches(msg, m.keys.Slower):
		m.player.SetWPM(s.WPM - 25)
	case key.Matches(msg, m.keys.MuchFaster):
		m.player.SetWPM(s.WPM + 50)
	case key.Matches(msg, m.keys.MuchSlower):
		m.player.SetWPM(s.WPM - 50)
	}
	return m, nil
}

// seek moves by delta and flashes how far the reader actually went.
func (m model) seek(before playback.Snapshot, delta int) (tea.Model, tea.Cmd) {
	m.player.SeekBy(delta)
	moved := m.player.Snapshot().Index - before.Index
	switch {
	case moved < 0:
		m.hint = fmt.Sprintf("← %d words", -moved)
	case moved > 0:
		m.hint = fmt.Sprintf("%d words →", moved)
	default:
		return m, nil
	}
	m.hintID++
	id := m.hintID
	return m, tea.Tick(hintTTL, func(time.Time) tea.Msg {
		return hintExpiredMsg(id)
	})
}

func (m model) updateComment(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.social.Comment(m.article.Ref, m.comment.Value())
		m.comment.Reset()
		m.comment.Blur()
		m.commenting = false
		return m, nil
	case tea.KeyEsc:
		m.comment.Blur()
		m.commenting = false
		return m, nil
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.comment, cmd = m.comment.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		if m.player.Snapshot().Mode == playback.Finished {
			return completeStyle.Render("\n  Reading complete!\n")
		}
		return ""
	}

	s := m.player.Snapshot()
	if s.Mode == playback.Finished {
		return m.finishedView()
	}

	var body []string
	switch s.Mode {
	case playback.Idle:
		body = []string{
			centre(titleStyle.Render(m.article.Title), m.width),
			"",
			centre(dimStyle.Render("Press SPACE or hold the mouse to start"), m.width),
		}

	case playback.ShowingImage:
		body = []string{
			centre(imageStyle.Render("[image]"), m.width),
			centre(dimStyle.Render(s.ImageURL()), m.width),
			"",
			centre(dimStyle.Render("ENTER: skip →"), m.width),
		}

	default:
		word := s.Word()
		body = append(body, anchorORPText(formatWord(word), word, m.width))
		if line := m.indicator(s); line != "" {
			body = append(body, centre(line, m.width))
		} else {
			body = append(body, "")
		}
		body = append(body, centre(m.contextLine(s.Index), m.width))
	}

	return m.frame(m.statusLine(s), body, m.help.View(m.keys))
}

func (m model) indicator(s playback.Snapshot) string {
	switch m.gesture.Direction() {
	case playback.ScrubBack:
		return dimStyle.Render("◀ rewinding")
	case playback.ScrubForward:
		return dimStyle.Render("skipping ▶")
	}
	if m.hint != "" {
		return dimStyle.Render(m.hint)
	}
	if s.Mode == playback.Paused {
		return pausedStyle.Render("paused")
	}
	return ""
}

func (m model) statusLine(s playback.Snapshot) string {
	pause := ""
	if s.Mode == playback.Paused {
		pause = pausedStyle.Render(" [PAUSED]")
	}
	chapter := ""
	if i := reader.ChapterAt(m.chapters, s.Index); i >= 0 && len(m.chapters) > 1 {
		chapter = " | " + m.chapters[i].Title
	}
	status := statusStyle.Render(
		fmt.Sprintf("Word %d/%d | %d WPM | %s left%s%s",
			s.Position(),
			s.Total,
			s.WPM,
			m.player.Remaining().Round(time.Second),
			chapter,
			pause,
		),
	)
	return status + "\n" + m.progress.ViewAs(s.Progress()/100)
}

func (m model) finishedView() string {
	lines := []string{
		centre(completeStyle.Render("Finished"), m.width),
		centre(dimStyle.Render(m.article.Title), m.width),
		"",
	}
	if m.feedback != "" {
		lines = append(lines, centre(m.feedback, m.width), "")
	}
	if m.commenting {
		lines = append(lines, centre(m.comment.View(), m.width))
	}
	return m.frame("", lines, m.help.View(finishedHelp{m.keys}))
}

// frame centres body vertically between the header and footer.
func (m model) frame(header string, body []string, footer string) string {
	used := lipgloss.Height(header) + lipgloss.Height(footer) + len(body)
	vPad := max((m.height-used)/2, 0)

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")
	for i := 0; i < vPad; i++ {
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Join(body, "\n"))
	for i := 0; i < m.height-used-vPad-1; i++ {
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(footer)
	return sb.String()
}

func (m model) contextLine(index int) string {
	strip, current := reader.ContextStrip(m.items, index, reader.DefaultContextRadius)
	parts := make([]string, len(strip))
	for i, w := range strip {
		if i == current {
			parts[i] = contextCurrentStyle.Render(w)
		} else {
			parts[i] = contextStyle.Render(w)
		}
	}
	return strings.Join(parts, " ")
}

func formatWord(word string) string {
	before, focus, after := reader.SplitWord(word)
	return wordBeforeStyle.Render(before) +
		erpStyle.Render(focus) +
		wordAfterStyle.Render(after)
}

func anchorORPText(text string, word string, width int) string {
	anchor := width / 2
	orp := reader.PivotIndex(word)
	pad := anchor - orp
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + text
}

func centre(text string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	wpm := flag.Int("w", cfg.WPM, "Words per minute (100-1000)")
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Skim - Terminal Speed Reading Tool\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  skim [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nFormats: %s, plain text\n", strings.Join(reader.SupportedFormats(), ", "))
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  skim article.md            Read from file at 300 WPM\n")
		fmt.Fprintf(os.Stderr, "  skim -w 500 book.epub      Read from file at 500 WPM\n")
		fmt.Fprintf(os.Stderr, "  cat post.md | skim         Read from stdin\n")
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		fmt.Fprintf(os.Stderr, "  SKIM_WPM, SKIM_SEEK_POLICY (pause|resume), SKIM_SCRUB_CELLS,\n")
		fmt.Fprintf(os.Stderr, "  SKIM_LOG_FILE, SKIM_LOG_LEVEL, SKIM_JOURNAL, SKIM_NO_JOURNAL\n")
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("skim %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	log, logCloser, err := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	article, err := readInput(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Try: skim -h")
		os.Exit(1)
	}
	log.Info("opened article", "title", article.Title, "ref", article.Ref, "sections", len(article.Sections))

	var p *tea.Program
	send := func(msg tea.Msg) {
		if p != nil {
			p.Send(msg)
		}
	}

	var pub social.Publisher
	if cfg.Journal != "" {
		j, err := social.Open(cfg.Journal)
		if err != nil {
			log.Warn("reaction journal unavailable", "path", cfg.Journal, "error", err)
		} else {
			defer j.Close()
			pub = j
		}
	}

	dispatcher := social.NewDispatcher(pub, log, func(s string) { send(feedbackMsg(s)) })
	m := newModel(article, *wpm, deps{
		clock:      playback.DispatchClock(func(f func()) { send(fireMsg(f)) }),
		policy:     cfg.Policy,
		scrubCells: cfg.ScrubCells,
		social:     dispatcher,
		log:        log,
	})
	p = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	_, err = p.Run()
	dispatcher.Wait()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
