package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pagedrive/pkg/config"
)

func TestRun_ExecutesInOrder(t *testing.T) {
	page := newFakePage()
	input := &fakeElement{}
	button := &fakeElement{}
	page.elements[`input[name=q]`] = input
	page.elements[`input[type=submit]`] = button

	session := newTestSession(t, page, map[string]string{
		"q":      `input[name=q]`,
		"submit": `input[type=submit]`,
	})

	err := session.Run([]Operation{
		Navigate("https://example.test/"),
		Fill("q", "hello"),
		Click("submit"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.test/"}, page.gotoCalls)
	assert.Equal(t, "hello", input.value(), "fill typed into the resolved element")
	assert.Equal(t, 1, button.clicks)
	// One load wait from the navigation, one unconditional wait after the
	// click.
	assert.Equal(t, 2, page.loadWaits)
}

func TestRun_AbortsAtFirstFailure(t *testing.T) {
	page := newFakePage()
	button := &fakeElement{}
	page.elements["#later"] = button

	session := newTestSession(t, page, map[string]string{"later": "#later"})

	err := session.Run([]Operation{
		Navigate("https://example.test/"),
		Fill("missing", "x"),
		Click("later"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLookup)
	assert.Contains(t, err.Error(), "step 2")

	// The navigation before the failing step already happened and is not
	// rolled back; the click after it never runs.
	assert.Equal(t, []string{"https://example.test/"}, page.gotoCalls)
	assert.Equal(t, 0, button.clicks)
}

func TestRun_FillWithAbsentContentIsSkipped(t *testing.T) {
	page := newFakePage()
	session := newTestSession(t, page, map[string]string{"q": `input[name=q]`})

	err := session.Run([]Operation{
		{Method: MethodFill, Target: "q"}, // no content
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, page.driverCalls())
}

func TestRun_ValidatesOperations(t *testing.T) {
	page := newFakePage()
	session := newTestSession(t, page, nil)

	tests := []struct {
		name    string
		op      Operation
		wantErr string
	}{
		{
			name:    "unknown method",
			op:      Operation{Method: "hover", Target: "#x"},
			wantErr: "unknown operation method",
		},
		{
			name:    "missing target",
			op:      Operation{Method: MethodClick},
			wantErr: "requires a target",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := session.Run([]Operation{tt.op})
			require.Error(t, err)
			assert.ErrorIs(t, err, config.ErrConfiguration)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRun_Empty(t *testing.T) {
	page := newFakePage()
	session := newTestSession(t, page, nil)

	assert.NoError(t, session.Run(nil))
	assert.Equal(t, 0, page.driverCalls())
}

func TestConstructors(t *testing.T) {
	nav := Navigate("https://example.test/")
	assert.Equal(t, MethodNavigate, nav.Method)
	assert.Equal(t, "https://example.test/", nav.Target)
	assert.Nil(t, nav.Content)

	click := Click("button")
	assert.Equal(t, MethodClick, click.Method)

	fill := Fill("q", "text")
	assert.Equal(t, MethodFill, fill.Method)
	require.NotNil(t, fill.Content)
	assert.Equal(t, "text", *fill.Content)
}

func TestLoadOperations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.yaml")
	content := `
- method: navigate
  target: https://example.test/
- method: fill
  target: search_box
  content: sample text
- method: fill
  target: optional_box
- method: click
  target: search_button
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	ops, err := LoadOperations(path)
	require.NoError(t, err)
	require.Len(t, ops, 4)

	assert.Equal(t, Navigate("https://example.test/"), ops[0])
	assert.Equal(t, Fill("search_box", "sample text"), ops[1])
	assert.Nil(t, ops[2].Content, "absent content stays absent")
	assert.Equal(t, Click("search_button"), ops[3])
}

func TestLoadOperations_InvalidStep(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- method: click\n"), 0600))

	_, err := LoadOperations(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfiguration)
	assert.Contains(t, err.Error(), "step 1")
}

func TestLoadOperations_MissingFile(t *testing.T) {
	_, err := LoadOperations(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, config.ErrConfiguration)
}
