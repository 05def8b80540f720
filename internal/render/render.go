package render

// Markdown renders markdown content for terminal display. Renderers are
// reused across calls with the same options.
func Markdown(content string, opts Options) (string, error) {
	r, err := renderers.borrow(opts)
	if err != nil {
		return "", err
	}
	defer renderers.release(opts, r)

	return r.Render(content)
}
