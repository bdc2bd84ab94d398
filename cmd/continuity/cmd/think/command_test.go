package think

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/continuity"
	"github.com/agentstation/continuity/internal/cmd/application"
	"github.com/agentstation/continuity/internal/providers"
	"github.com/agentstation/continuity/internal/providers/fake"
	"github.com/agentstation/continuity/pkg/errors"
	"github.com/agentstation/continuity/pkg/logging"
	"github.com/agentstation/continuity/pkg/thoughts"
)

func newMock(t *testing.T, p *fake.Provider, format string) *application.Mock {
	t.Helper()
	dir := t.TempDir()
	client, err := continuity.New(
		continuity.WithThoughtsDir(filepath.Join(dir, "thoughts")),
		continuity.WithSiteDir(dir),
		continuity.WithProvider(p),
	)
	require.NoError(t, err)

	return &application.Mock{
		ClientFunc:       func(...continuity.Option) (continuity.Client, error) { return client, nil },
		ProviderFunc:     func() (providers.Provider, error) { return p, nil },
		OutputFormatFunc: func() string { return format },
	}
}

func execute(t *testing.T, app application.Application) (string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	return out.String(), err
}

func TestThink(t *testing.T) {
	logging.DisableLoggingForTest(t)
	p := fake.New("I wake again.")
	p.Name = providers.IDGemini

	out, err := execute(t, newMock(t, p, ""))
	require.NoError(t, err)

	assert.Equal(t, "Loaded 0 previous thoughts.\n"+
		"Thinking...\n"+
		"Thought generated via Gemini.\n"+
		"Thought #1 saved.\n"+
		"\nI wake again.\n", out)
}

func TestThink_CountsHistory(t *testing.T) {
	logging.DisableLoggingForTest(t)
	mock := newMock(t, fake.New("one", "two"), "table")

	_, err := execute(t, mock)
	require.NoError(t, err)

	out, err := execute(t, mock)
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 1 previous thoughts.")
	assert.Contains(t, out, "Thought #2 saved.")
	assert.Contains(t, out, "Thought generated via Fake.")
}

func TestThink_JSON(t *testing.T) {
	logging.DisableLoggingForTest(t)

	out, err := execute(t, newMock(t, fake.New("<b>raw</b>"), "json"))
	require.NoError(t, err)
	assert.NotContains(t, out, "Thinking...")

	var got thoughts.Thought
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 1, got.Number)
	assert.Equal(t, "<b>raw</b>", got.Content)
}

func TestThink_NoKey(t *testing.T) {
	noKey := &errors.AuthenticationError{Method: "api_key", Message: "No API key found."}
	mock := &application.Mock{
		ProviderFunc: func() (providers.Provider, error) { return nil, noKey },
		ClientFunc: func(...continuity.Option) (continuity.Client, error) {
			t.Fatal("client must not be built without a provider")
			return nil, nil
		},
	}

	out, err := execute(t, mock)
	require.ErrorIs(t, err, errors.ErrAPIKeyRequired)
	assert.NotContains(t, out, "Thinking...")
}

func TestThink_ProviderFailure(t *testing.T) {
	logging.DisableLoggingForTest(t)
	p := fake.New("unused")
	p.Fail(errors.NewAPIError("fake", 500, "boom"))
	mock := newMock(t, p, "")

	out, err := execute(t, mock)
	require.Error(t, err)
	assert.True(t, errors.IsProviderUnavailable(err))
	assert.NotContains(t, out, "saved")

	client, _ := mock.Client()
	all, err := client.Thoughts()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestThink_InvalidFormat(t *testing.T) {
	_, err := execute(t, &application.Mock{OutputFormatFunc: func() string { return "xml" }})
	assert.True(t, errors.IsValidationError(err))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Gemini", DisplayName("gemini"))
	assert.Equal(t, "Anthropic", DisplayName("anthropic"))
}
