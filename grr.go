//go:build gui

package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/metcalfc/skim/internal/config"
	"github.com/metcalfc/skim/internal/logging"
	"github.com/metcalfc/skim/internal/playback"
	"github.com/metcalfc/skim/internal/reader"
	"github.com/metcalfc/skim/internal/social"
)

const hintTTL = 1500 * time.Millisecond

const (
	scrubBackHint    = "◀ rewinding"
	scrubForwardHint = "skipping ▶"
)

var (
	pivotColor   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	contextColor = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 255}
)

type model struct {
	player    *playback.Player
	gesture   *playback.Gesture
	social    *social.Dispatcher
	article   reader.Article
	items     []reader.Item
	chapters  []reader.Chapter
	sentences []int

	fontSize   float32
	tocVisible bool
	hintID     int
}

// orpLayout keeps the pivot letter at the horizontal centre. Objects are the
// before, pivot and after texts.
type orpLayout struct{}

func (l *orpLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var w, h float32
	for _, o := range objects {
		size := o.MinSize()
		w += size.Width
		h = max(h, size.Height)
	}
	return fyne.NewSize(w, h)
}

func (l *orpLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) != 3 {
		return
	}
	before, pivot, after := objects[0], objects[1], objects[2]

	var maxH float32
	for _, o := range objects {
		maxH = max(maxH, o.MinSize().Height)
	}
	y := max((size.Height-maxH)/2, 0)

	centerX := size.Width / 2
	beforeX := max(centerX-before.MinSize().Width, 0)

	before.Move(fyne.NewPos(beforeX, y))
	pivot.Move(fyne.NewPos(centerX, y))
	after.Move(fyne.NewPos(centerX+pivot.MinSize().Width, y))
	for _, o := range objects {
		o.Resize(o.MinSize())
	}
}

func newWordText(s string, c color.Color, size float32) *canvas.Text {
	t := canvas.NewText(s, c)
	t.TextSize = size
	t.TextStyle.Bold = true
	return t
}

func createWordDisplay(word string, fontSize float32) *fyne.Container {
	before, pivot, after := reader.SplitWord(word)
	return container.New(&orpLayout{},
		newWordText(before, color.White, fontSize),
		newWordText(pivot, pivotColor, fontSize),
		newWordText(after, color.White, fontSize),
	)
}

func createImageDisplay(url string, skip func()) fyne.CanvasObject {
	objects := []fyne.CanvasObject{}
	if uri, err := storage.ParseURI(url); err == nil {
		img := canvas.NewImageFromURI(uri)
		img.FillMode = canvas.ImageFillContain
		img.SetMinSize(fyne.NewSize(320, 240))
		objects = append(objects, img)
	}
	label := widget.NewLabel(url)
	label.Alignment = fyne.TextAlignCenter
	label.Truncation = fyne.TextTruncateEllipsis
	objects = append(objects, label, container.NewCenter(widget.NewButton("Skip →", skip)))
	return container.NewCenter(container.NewVBox(objects...))
}

// readingSurface turns mouse presses and drags over the word into Gesture calls.
type readingSurface struct {
	widget.BaseWidget
	content   *fyne.Container
	gesture   *playback.Gesture
	onRelease func()
}

var (
	_ desktop.Mouseable = (*readingSurface)(nil)
	_ fyne.Draggable    = (*readingSurface)(nil)
)

func newReadingSurface(content *fyne.Container, g *playback.Gesture, onRelease func()) *readingSurface {
	s := &readingSurface{content: content, gesture: g, onRelease: onRelease}
	s.ExtendBaseWidget(s)
	return s
}

func (s *readingSurface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.content)
}

func (s *readingSurface) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button == desktop.MouseButtonPrimary {
		s.gesture.Press(float64(ev.Position.X))
	}
}

func (s *readingSurface) MouseUp(*desktop.MouseEvent) { s.release() }

func (s *readingSurface) Dragged(ev *fyne.DragEvent) {
	s.gesture.Drag(float64(ev.Position.X))
}

func (s *readingSurface) DragEnd() { s.release() }

func (s *readingSurface) release() {
	if !s.gesture.Active() {
		return
	}
	s.gesture.Release()
	s.onRelease()
}

func contextText(items []reader.Item, index int) string {
	strip, _ := reader.ContextStrip(items, index, reader.DefaultContextRadius)
	return strings.Join(strip, " ")
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
	showTOC := flag.Bool("toc", false, "Show chapter list at startup")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Skim - GUI Speed Reading Tool\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  skim [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  skim file.md              Read from file at 300 WPM\n")
		fmt.Fprintf(os.Stderr, "  skim -w 500 file.txt      Read from file at 500 WPM\n")
		fmt.Fprintf(os.Stderr, "  skim --toc book.epub      Show chapter list at startup\n")
		fmt.Fprintf(os.Stderr, "  cat file.md | skim        Read from stdin\n")
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("skim %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	log, logCloser, err := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel, Stderr: true})
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

	run(article, *wpm, *showTOC, cfg, pub, log)
}

func run(article reader.Article, wpm int, showTOC bool, cfg config.Config, pub social.Publisher, log *slog.Logger) {
	a := app.New()
	w := a.NewWindow("skim - " + article.Title)

	items, chapters := article.Items()
	m := &model{
		article:    article,
		items:      items,
		chapters:   chapters,
		sentences:  reader.SentenceStarts(items),
		fontSize:   72,
		tocVisible: showTOC && len(chapters) > 1,
	}

	statusLabel := widget.NewLabel("")
	statusLabel.Alignment = fyne.TextAlignCenter
	hintLabel := widget.NewLabel("")
	hintLabel.Alignment = fyne.TextAlignCenter
	contextLabel := canvas.NewText("", contextColor)
	contextLabel.Alignment = fyne.TextAlignCenter
	progressBar := widget.NewProgressBar()
	progressBar.Max = 100
	progressBar.TextFormatter = func() string { return "" }

	tocHint := ""
	if len(chapters) > 1 {
		tocHint = "  T: chapters"
	}
	controlsLabel := widget.NewLabel("SPACE: play/pause  ←/→: ∓5  ( ): sentence  [ ]: chapter  ↑/↓: speed  </>: font  R: restart" + tocHint + "  F: fullscreen  Q: quit")
	controlsLabel.Alignment = fyne.TextAlignCenter
	controlsLabel.Wrapping = fyne.TextWrapWord

	feedbackLabel := widget.NewLabel("")
	feedbackLabel.Alignment = fyne.TextAlignCenter
	feedbackID := 0
	notify := func(s string) {
		fyne.Do(func() {
			feedbackID++
			id := feedbackID
			feedbackLabel.SetText(s)
			time.AfterFunc(social.FeedbackTTL, func() {
				fyne.Do(func() {
					if id == feedbackID {
						feedbackLabel.SetText("")
					}
				})
			})
		})
	}
	m.social = social.NewDispatcher(pub, log, notify)

	wordContainer := container.NewStack()

	var refresh func(playback.Snapshot)
	m.player = playback.New(playback.Options{
		WPM:        wpm,
		SeekPolicy: cfg.Policy,
		Clock:      playback.DispatchClock(fyne.Do),
		Logger:     log,
		OnChange:   func(s playback.Snapshot) { refresh(s) },
	})
	m.gesture = playback.NewGesture(m.player, cfg.ScrubPixels)

	commentEntry := widget.NewEntry()
	commentEntry.SetPlaceHolder("Write a comment...")
	postComment := func() {
		m.social.Comment(m.article.Ref, commentEntry.Text)
		commentEntry.SetText("")
	}
	commentEntry.OnSubmitted = func(string) { postComment() }

	finishedView := container.NewCenter(container.NewVBox(
		widget.NewLabelWithStyle("Finished", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle(article.Title, fyne.TextAlignCenter, fyne.TextStyle{}),
		container.NewHBox(
			layout.NewSpacer(),
			widget.NewButton("Like", func() { m.social.Like(m.article.Ref) }),
			widget.NewButton("Restart", func() { m.player.Reset() }),
			layout.NewSpacer(),
		),
		container.NewBorder(nil, nil, nil, widget.NewButton("Post", postComment), commentEntry),
		feedbackLabel,
	))

	showHint := func(s string) {
		m.hintID++
		id := m.hintID
		hintLabel.SetText(s)
		time.AfterFunc(hintTTL, func() {
			fyne.Do(func() {
				if id == m.hintID {
					hintLabel.SetText("")
				}
			})
		})
	}

	seek := func(target int) {
		before := m.player.Snapshot().Index
		m.player.SeekTo(target)
		switch moved := m.player.Snapshot().Index - before; {
		case moved < 0:
			showHint(fmt.Sprintf("← %d words", -moved))
		case moved > 0:
			showHint(fmt.Sprintf("%d words →", moved))
		}
	}

	refresh = func(s playback.Snapshot) {
		var view fyne.CanvasObject
		switch s.Mode {
		case playback.Idle:
			view = container.NewCenter(container.NewVBox(
				widget.NewLabelWithStyle(article.Title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
				widget.NewLabelWithStyle("Press SPACE or hold the mouse to start", fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
			))
		case playback.ShowingImage:
			view = createImageDisplay(s.ImageURL(), m.player.SkipImage)
		case playback.Finished:
			view = finishedView
		default:
			view = createWordDisplay(s.Word(), m.fontSize)
		}
		wordContainer.Objects = []fyne.CanvasObject{view}
		wordContainer.Refresh()

		if s.Mode == playback.Playing || s.Mode == playback.Paused {
			contextLabel.Text = contextText(m.items, s.Index)
		} else {
			contextLabel.Text = ""
		}
		contextLabel.Refresh()

		switch m.gesture.Direction() {
		case playback.ScrubBack:
			hintLabel.SetText(scrubBackHint)
		case playback.ScrubForward:
			hintLabel.SetText(scrubForwardHint)
		}

		pause := ""
		if s.Mode == playback.Paused {
			pause = " [PAUSED]"
		}
		chapter := ""
		if i := reader.ChapterAt(m.chapters, s.Index); i >= 0 && len(m.chapters) > 1 {
			chapter = " | " + m.chapters[i].Title
		}
		statusLabel.SetText(fmt.Sprintf("Word %d/%d | %d WPM | %s left%s%s",
			s.Position(), s.Total, s.WPM, m.player.Remaining().Round(time.Second), chapter, pause))
		progressBar.SetValue(s.Progress())
	}

	surface := newReadingSurface(
		container.NewBorder(nil, container.NewVBox(contextLabel, hintLabel), nil, nil, wordContainer),
		m.gesture,
		func() {
			if t := hintLabel.Text; t == scrubBackHint || t == scrubForwardHint {
				hintLabel.SetText("")
			}
		},
	)

	readingContent := container.NewBorder(
		container.NewVBox(statusLabel, progressBar),
		controlsLabel,
		nil, nil,
		surface,
	)

	var tocPanel *container.Split
	var mainContainer *fyne.Container

	if len(chapters) > 1 {
		tocList := widget.NewList(
			func() int { return len(m.chapters) },
			func() fyne.CanvasObject {
				return container.NewVBox(
					widget.NewLabel("Title"),
					widget.NewLabel("Preview"),
				)
			},
			func(id widget.ListItemID, obj fyne.CanvasObject) {
				ch := m.chapters[id]
				vbox := obj.(*fyne.Container)
				titleLabel := vbox.Objects[0].(*widget.Label)
				previewLabel := vbox.Objects[1].(*widget.Label)

				indent := strings.Repeat("  ", ch.Level)
				titleLabel.SetText(indent + ch.Title)
				titleLabel.TextStyle.Bold = true

				preview := []rune(ch.Preview)
				if len(preview) > 50 {
					preview = append(preview[:50], []rune("...")...)
				}
				previewLabel.SetText(indent + string(preview))
			},
		)

		tocContainer := container.NewBorder(
			widget.NewLabel("Chapters"),
			widget.NewLabel("Click to jump • T to close"),
			nil, nil,
			tocList,
		)
		tocPanel = container.NewHSplit(tocContainer, readingContent)
		tocPanel.Offset = 0.33

		tocList.OnSelected = func(id widget.ListItemID) {
			if id < len(m.chapters) {
				m.player.SeekTo(m.chapters[id].Start)
				m.tocVisible = false
				tocPanel.Leading.Hide()
				tocPanel.Refresh()
				tocList.UnselectAll()
			}
		}

		if !m.tocVisible {
			tocContainer.Hide()
		}
		mainContainer = container.NewStack(tocPanel)
	} else {
		mainContainer = container.NewStack(readingContent)
	}

	w.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		s := m.player.Snapshot()
		switch key.Name {
		case fyne.KeySpace:
			m.player.Toggle()
		case fyne.KeyReturn, fyne.KeyEnter:
			m.player.SkipImage()
		case fyne.KeyUp:
			m.player.SetWPM(s.WPM + playback.WPMStep)
		case fyne.KeyDown:
			m.player.SetWPM(s.WPM - playback.WPMStep)
		case fyne.KeyLeft:
			seek(s.Index - 5)
		case fyne.KeyRight:
			seek(s.Index + 5)
		case fyne.KeyF:
			w.SetFullScreen(!w.FullScreen())
		case fyne.KeyQ:
			a.Quit()
		}
	})

	w.Canvas().SetOnTypedRune(func(r rune) {
		s := m.player.Snapshot()
		switch r {
		case '(':
			seek(reader.PrevSentence(m.sentences, s.Index))
		case ')':
			seek(reader.NextSentence(m.sentences, s.Index, s.Total))
		case '[':
			seek(reader.PrevChapter(m.chapters, s.Index))
		case ']':
			seek(reader.NextChapter(m.chapters, s.Index))
		case '+', '=':
			m.player.SetWPM(s.WPM + 2*playback.WPMStep)
		case '-':
			m.player.SetWPM(s.WPM - 2*playback.WPMStep)
		case '>':
			if m.fontSize < 200 {
				m.fontSize += 5
				refresh(s)
			}
		case '<':
			if m.fontSize > 20 {
				m.fontSize -= 5
				refresh(s)
			}
		case 'r', 'R':
			m.player.Reset()
		case 'l', 'L':
			if s.Mode == playback.Finished {
				m.social.Like(m.article.Ref)
			}
		case 'c', 'C':
			if s.Mode == playback.Finished {
				w.Canvas().Focus(commentEntry)
			}
		case 't', 'T':
			if tocPanel == nil {
				return
			}
			m.tocVisible = !m.tocVisible
			if m.tocVisible {
				m.player.Pause()
				tocPanel.Leading.Show()
			} else {
				tocPanel.Leading.Hide()
			}
			tocPanel.Refresh()
		}
	})

	w.Resize(fyne.NewSize(800, 600))
	w.SetContent(mainContainer)
	w.SetOnClosed(func() {
		m.player.Pause()
		m.social.Wait()
	})

	m.player.Load(items)
	w.ShowAndRun()
}
