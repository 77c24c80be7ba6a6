// Package console renders session events on the daemon's terminal: colored
// status lines, a scrolling log, and an in-place audio level meter.
package console

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"murmur/internal/events"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

// clearLine returns the cursor to column zero and erases the line.
const clearLine = "\r\033[K"

const meterMaxBars = 20

const eventQueueSize = 64

type eventKind int

const (
	kindStatus eventKind = iota
	kindLog
	kindLevel
)

type renderEvent struct {
	kind     eventKind
	text     string
	severity events.Severity
	category events.Category
	level    float64
}

// Renderer serializes all terminal writes through a single goroutine so sink
// callbacks never block on output. Status and log events queue; level events
// are dropped when the queue is full since a fresher one is right behind.
type Renderer struct {
	out    io.Writer
	logger *slog.Logger

	queue chan renderEvent
	done  chan struct{}

	mu     sync.Mutex
	closed bool

	meterShown bool
}

// New starts a renderer writing to out.
func New(out io.Writer, logger *slog.Logger) *Renderer {
	r := &Renderer{
		out:    out,
		logger: logger,
		queue:  make(chan renderEvent, eventQueueSize),
		done:   make(chan struct{}),
	}
	go r.loop()
	return r
}

func (r *Renderer) StatusChanged(text string, severity events.Severity) {
	r.send(renderEvent{kind: kindStatus, text: text, severity: severity}, false)
}

func (r *Renderer) LogAppended(text string, category events.Category) {
	r.send(renderEvent{kind: kindLog, text: text, category: category}, false)
}

func (r *Renderer) AudioLevel(level float64) {
	r.send(renderEvent{kind: kindLevel, level: level}, true)
}

// Close stops accepting events, drains the queue, and waits for the render
// goroutine to exit. Safe to call more than once.
func (r *Renderer) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.done
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	<-r.done
}

func (r *Renderer) send(ev renderEvent, droppable bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if droppable {
		select {
		case r.queue <- ev:
		default:
		}
		return
	}
	r.queue <- ev
}

func (r *Renderer) loop() {
	defer close(r.done)

	for ev := range r.queue {
		switch ev.kind {
		case kindStatus:
			r.printLine(severityColor(ev.severity), ev.text)
		case kindLog:
			r.printLine(categoryColor(ev.category), ev.text)
		case kindLevel:
			r.renderMeter(ev.level)
		}
	}

	if r.meterShown {
		r.write("\n")
		r.meterShown = false
	}
}

// printLine emits a full output line, clearing the meter first if one is on
// screen. The meter redraws on the next level event.
func (r *Renderer) printLine(color, text string) {
	if r.meterShown {
		r.write(clearLine)
		r.meterShown = false
	}
	if color == "" {
		r.write(text + "\n")
		return
	}
	r.write(color + text + colorReset + "\n")
}

func (r *Renderer) renderMeter(level float64) {
	if level < 0 {
		r.write(clearLine + "Audio Level: --\n")
		r.meterShown = false
		return
	}

	bar := strings.Repeat("█", meterBars(level))
	r.write(fmt.Sprintf("%sAudio Level: %s (%.1f)", clearLine, bar, level))
	r.meterShown = true
}

func (r *Renderer) write(s string) {
	if _, err := io.WriteString(r.out, s); err != nil && r.logger != nil {
		r.logger.Warn("console write failed", "error", err.Error())
	}
}

func meterBars(level float64) int {
	bars := int(level)
	if bars < 0 {
		return 0
	}
	if bars > meterMaxBars {
		return meterMaxBars
	}
	return bars
}

func severityColor(severity events.Severity) string {
	switch severity {
	case events.SeverityActive, events.SeverityError:
		return colorRed
	case events.SeveritySuccess:
		return colorGreen
	case events.SeverityWarning:
		return colorYellow
	case events.SeverityInfo:
		return colorBlue
	default:
		return ""
	}
}

func categoryColor(category events.Category) string {
	switch category {
	case events.CategoryError:
		return colorRed
	case events.CategoryDevice:
		return colorCyan
	default:
		return ""
	}
}
