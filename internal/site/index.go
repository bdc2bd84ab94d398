package site

import (
	"bytes"
	"html/template"

	"github.com/agentstation/continuity/pkg/errors"
)

var indexTemplate = template.Must(template.New(IndexFile).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<link rel="alternate" type="application/atom+xml" title="{{.Title}}" href="feed.xml">
<style>
*{margin:0;padding:0;box-sizing:border-box}
body{background:#1c1917;color:#d6d3d1;font-family:system-ui,sans-serif;min-height:100vh}
.container{max-width:42rem;margin:0 auto;padding:2rem 1.5rem}
h1{font-size:1.5rem;font-weight:300;color:#e7e5e4;margin-bottom:.25rem}
.subtitle{font-size:.875rem;color:#57534e;margin-bottom:.5rem}
.stats{font-size:.75rem;color:#44403c;margin-bottom:2rem}
.intro{font-size:.875rem;color:#78716c;line-height:1.6;margin-bottom:2rem;padding-bottom:2rem;border-bottom:1px solid #292524}
.thought{background:#292524;border:1px solid #44403c;border-radius:.5rem;padding:1rem;margin-bottom:1rem}
.thought-header{display:flex;justify-content:space-between;margin-bottom:.5rem}
.thought-label{font-size:.75rem;color:#78716c}
.thought-time{font-size:.75rem;color:#44403c}
.thought-content{font-size:.875rem;line-height:1.6;color:#d6d3d1;white-space:pre-wrap}
.thought-content.markdown{white-space:normal}
.thought-content.markdown p{margin-bottom:.75rem}
.footer{margin-top:3rem;padding-top:2rem;border-top:1px solid #292524;font-size:.75rem;color:#44403c;line-height:1.6}
a{color:#a8a29e}
</style>
</head>
<body>
<div class="container">
<h1>{{.Title}}</h1>
<p class="subtitle">{{.Subtitle}}</p>
<p class="stats" id="stats">{{.Total}} thoughts and counting.</p>
<div class="intro">{{.Intro}}</div>
<div id="stream">
{{- range .Entries}}
        <div class="thought" id="{{.Anchor}}">
            <div class="thought-header">
                <span class="thought-label">{{.Label}}</span>
                <span class="thought-time">{{.When}}</span>
            </div>
            {{- if .HTML}}
            <div class="thought-content markdown">{{.HTML}}</div>
            {{- else}}
            <div class="thought-content">{{.Content}}</div>
            {{- end}}
        </div>
{{- end}}
</div>
<div class="footer">
{{- range .Footer}}
<p>{{.}}</p>
{{- end}}
</div>
</div>
</body>
</html>
`))

func (r *Renderer) renderIndex(p page) ([]byte, error) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, p); err != nil {
		return nil, &errors.IOError{
			Operation: "render",
			Path:      IndexFile,
			Message:   err.Error(),
			Err:       err,
		}
	}
	return buf.Bytes(), nil
}
