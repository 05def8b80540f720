package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// idlePerOptions caps how many spare renderers are kept for one option set
const idlePerOptions = 4

// rendererPool lends glamour renderers keyed by the options that built them.
// A TermRenderer must not render concurrently, so every caller borrows its
// own and hands it back when done.
type rendererPool struct {
	mu   sync.Mutex
	idle map[Options][]*glamour.TermRenderer
}

var renderers = newRendererPool()

func newRendererPool() *rendererPool {
	return &rendererPool{idle: make(map[Options][]*glamour.TermRenderer)}
}

func (p *rendererPool) borrow(opts Options) (*glamour.TermRenderer, error) {
	p.mu.Lock()
	spare := p.idle[opts]
	if n := len(spare); n > 0 {
		r := spare[n-1]
		p.idle[opts] = spare[:n-1]
		p.mu.Unlock()
		return r, nil
	}
	p.mu.Unlock()

	// Building a renderer parses the style, so do it outside the lock
	return newRenderer(opts)
}

func (p *rendererPool) release(opts Options, r *glamour.TermRenderer) {
	if r == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.idle[opts]) < idlePerOptions {
		p.idle[opts] = append(p.idle[opts], r)
	}
}

// idleCount reports spare renderers held for opts
func (p *rendererPool) idleCount(opts Options) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle[opts])
}

func newRenderer(opts Options) (*glamour.TermRenderer, error) {
	ropts := []glamour.TermRendererOption{
		glamour.WithStylePath(resolveStyle(opts.Style)),
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}
	if opts.EnableEmoji {
		ropts = append(ropts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		ropts = append(ropts, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(ropts...)
}
