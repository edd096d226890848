package devserver

import (
	"path/filepath"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// reloadScript polls /build and reloads the page when the build id moves.
const reloadScript = `(() => {
  let id = null;
  const tick = async () => {
    try {
      const resp = await fetch('/build');
      const build = await resp.json();
      if (id === null) {
        id = build.id;
      } else if (build.id !== id) {
        location.reload();
      }
    } catch (err) {
      // server restarting, keep polling
    }
  };
  setInterval(tick, 500);
})();
`

const diagnosticStyle = `body { font-family: monospace; margin: 2rem; }
h1 { color: #b00020; font-size: 1.2rem; }
pre { background: #f5f5f5; padding: 1rem; white-space: pre-wrap; }
`

// previewPage embeds the three artifacts in a minimal document. Artifacts
// are trusted compiler output, so they are spliced in unescaped.
func previewPage(file string, build buildState) g.Node {
	return h.Doctype(
		h.HTML(
			h.Lang("en"),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.TitleEl(g.Text(filepath.Base(file))),
				h.StyleEl(g.Raw(build.Output.CSS)),
			),
			h.Body(
				g.Raw(build.Output.HTML),
				h.Script(g.Raw(build.Output.JS)),
				h.Script(g.Raw(reloadScript)),
			),
		),
	)
}

// diagnosticPage replaces the preview while the last build is broken. The
// reload script stays so fixing the file brings the preview back.
func diagnosticPage(err error) g.Node {
	return h.Doctype(
		h.HTML(
			h.Lang("en"),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.TitleEl(g.Text("build failed")),
				h.StyleEl(g.Raw(diagnosticStyle)),
			),
			h.Body(
				h.H1(g.Text("build failed")),
				h.Pre(g.Text(err.Error())),
				h.Script(g.Raw(reloadScript)),
			),
		),
	)
}
