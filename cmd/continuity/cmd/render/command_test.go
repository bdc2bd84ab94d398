package render

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/continuity"
	"github.com/agentstation/continuity/internal/cmd/application"
	"github.com/agentstation/continuity/pkg/logging"
	"github.com/agentstation/continuity/pkg/thoughts"
)

func TestRender(t *testing.T) {
	logging.DisableLoggingForTest(t)
	dir := t.TempDir()
	thoughtsDir := filepath.Join(dir, "thoughts")
	_, err := thoughts.NewStore(thoughtsDir).Save("stored earlier", thoughts.Meta{})
	require.NoError(t, err)

	// no provider: rendering never calls one
	client, err := continuity.New(
		continuity.WithThoughtsDir(thoughtsDir),
		continuity.WithSiteDir(dir),
	)
	require.NoError(t, err)

	for _, format := range []string{"table", "json"} {
		t.Run(format, func(t *testing.T) {
			cmd := NewCommand(&application.Mock{
				ClientFunc:       func(...continuity.Option) (continuity.Client, error) { return client, nil },
				OutputFormatFunc: func() string { return format },
			})
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetArgs([]string{})
			require.NoError(t, cmd.Execute())

			assert.FileExists(t, filepath.Join(dir, "index.html"))
			if format == "json" {
				var got Result
				require.NoError(t, json.Unmarshal(out.Bytes(), &got))
				assert.Equal(t, 1, got.Thoughts)
				assert.NotEmpty(t, got.Files)
				return
			}
			assert.Contains(t, out.String(), "Rendered 1 thoughts.")
			assert.Contains(t, out.String(), "index.html")
		})
	}
}
