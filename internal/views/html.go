// Package views renders the HTML pages as templ components.
package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Nav describes the visitor shown in the page header.
type Nav struct {
	Authenticated bool
	Name          string
	Trainer       bool
}

// htmlWriter writes markup and remembers the first write error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

// text writes s with HTML escaping.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(ctx, h.w)
	}
}

// component adapts a markup function to templ.Component.
func component(fn func(ctx context.Context, h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		fn(ctx, h)
		return h.err
	})
}

// Page wraps body in the shared layout.
func Page(title string, nav Nav, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.text(title)
		h.raw(` | Gym Diary</title></head><body><header><nav><a href="/">Gym Diary</a>`)
		if nav.Authenticated {
			h.raw(` <a href="/dashboard">Dashboard</a> <a href="/workouts">Workouts</a> <a href="/diary">Diary</a> <span class="user">`)
			h.text(nav.Name)
			h.raw(`</span> <a href="/logout">Log out</a>`)
		} else {
			h.raw(` <a href="/login">Log in</a> <a href="/signup">Sign up</a>`)
		}
		h.raw(`</nav></header><main>`)
		h.render(ctx, body)
		h.raw(`</main></body></html>`)
	})
}

func formError(h *htmlWriter, msg string) {
	if msg == "" {
		return
	}
	h.raw(`<p class="error" role="alert">`)
	h.text(msg)
	h.raw(`</p>`)
}

func input(h *htmlWriter, label, typ, name, value string) {
	h.raw(`<label>`)
	h.text(label)
	h.raw(` <input type="` + typ + `" name="` + name + `" id="` + name + `" value="`)
	h.text(value)
	h.raw(`"></label>`)
}
