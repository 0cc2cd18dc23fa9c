// Package terminal renders the chat widget in a text terminal.
package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"elderease/internal/catalog"
	"elderease/internal/model"
	"elderease/internal/widget"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiCyan  = "\033[36m"
	ansiGreen = "\033[32m"
	ansiBlue  = "\033[34m"
	ansiWhite = "\033[97m"
)

// Renderer writes the conversation to w. It is safe for concurrent use.
type Renderer struct {
	mu     sync.Mutex
	w      io.Writer
	color  bool
	theme  widget.Theme
	chrome catalog.Chrome
}

// NewRenderer creates a Renderer. color enables ANSI escape codes.
func NewRenderer(w io.Writer, color bool) *Renderer {
	return &Renderer{w: w, color: color, theme: widget.ThemeLight}
}

func (r *Renderer) paint(code, s string) string {
	if !r.color {
		return s
	}
	return code + s + ansiReset
}

func (r *Renderer) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(r.w, format, args...)
}

// RenderTurn prints one message.
func (r *Renderer) RenderTurn(turn model.Turn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if turn.IsUser() {
		r.printf("%s %s\n", r.paint(ansiBold+ansiBlue, "You:"), turn.Text)
		return
	}
	botColor := ansiGreen
	if r.theme == widget.ThemeDark {
		botColor = ansiWhite
	}
	r.printf("%s\n%s\n\n", r.paint(ansiBold+ansiCyan, "ElderEase:"), r.paint(botColor, indent(turn.Text)))
}

func (r *Renderer) ShowTyping(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("%s\n", r.paint(ansiDim, "… "+text))
}

// HideTyping is a no-op: printed lines cannot be taken back.
func (r *Renderer) HideTyping() {}

func (r *Renderer) SetStatus(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("%s\n", r.paint(ansiDim, "["+text+"]"))
}

func (r *Renderer) ClearMessages() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.color {
		r.printf("\033[H\033[2J")
		return
	}
	r.printf("\n%s\n\n", strings.Repeat("─", 40))
}

func (r *Renderer) ShowWelcome(greeting, instructions string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("%s\n%s\n\n", r.paint(ansiBold, greeting), instructions)
}

// ApplyChrome prints the header and the numbered quick actions for the locale.
func (r *Renderer) ApplyChrome(chrome catalog.Chrome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chrome = chrome

	r.printf("%s  %s\n", r.paint(ansiBold, chrome.QuickHelpTitle), r.paint(ansiDim, chrome.LanguageToggle+" (/lang)"))
	for i, label := range chrome.QuickActions {
		r.printf("  /quick %d  %s\n", i+1, label)
	}
	r.printf("%s\n\n", r.paint(ansiDim, chrome.InputPlaceholder))
}

func (r *Renderer) ApplyTheme(theme widget.Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.theme = theme
	label := r.chrome.ThemeDark
	if theme == widget.ThemeDark {
		label = r.chrome.ThemeLight
	}
	if label != "" {
		r.printf("%s\n", r.paint(ansiDim, label+" (/theme)"))
	}
}

func (r *Renderer) SetRecording(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if on {
		r.printf("🛑 (/voice to stop)\n")
		return
	}
	r.printf("🎤\n")
}

func (r *Renderer) Alert(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("%s %s\n", r.paint(ansiBold, "⚠"), text)
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
