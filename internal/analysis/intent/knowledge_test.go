package intent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKnowledgeLoads(t *testing.T) {
	kb, err := Default()
	require.NoError(t, err)

	assert.Len(t, kb.Entries, 17)
	assert.Len(t, kb.Phrases, 26)
	assert.NotEmpty(t, kb.Greeting)
	assert.NotEmpty(t, kb.Fallback)

	// Declaration order survives decoding.
	assert.Equal(t, "hello", kb.Entries[0].Key)
	assert.Equal(t, "thank you", kb.Entries[len(kb.Entries)-1].Key)
	assert.Equal(t, "electric vehicles", kb.Phrases[0].Phrase)
	assert.Equal(t, "comparison", kb.Phrases[len(kb.Phrases)-1].Phrase)
}

func TestValidateRejectsBadData(t *testing.T) {
	cases := map[string]struct {
		yaml string
		want error
	}{
		"empty": {
			yaml: "greeting: hi\n",
			want: ErrEmptyKnowledge,
		},
		"unnormalized key": {
			yaml: "entries:\n  - {key: 'Hello?', response: hi}\n",
			want: ErrInvalidEntry,
		},
		"uppercase key": {
			yaml: "entries:\n  - key: Hello\n    response: hi\n",
			want: ErrInvalidEntry,
		},
		"duplicate key": {
			yaml: "entries:\n  - {key: hi, response: a}\n  - {key: hi, response: b}\n",
			want: ErrInvalidEntry,
		},
		"missing response": {
			yaml: "entries:\n  - {key: hi, response: ''}\n",
			want: ErrInvalidEntry,
		},
		"dangling target": {
			yaml: "entries:\n  - {key: hi, response: a}\nphrases:\n  - {phrase: hey, target: hello}\n",
			want: ErrInvalidRule,
		},
		"empty phrase": {
			yaml: "entries:\n  - {key: hi, response: a}\nphrases:\n  - {phrase: '', target: hi}\n",
			want: ErrInvalidRule,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("entries: [unterminated"))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.yaml")
	content := "fallback: nope\nentries:\n  - {key: ping, response: pong}\nphrases:\n  - {phrase: pin, target: ping}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	kb, err := LoadFile(path)
	require.NoError(t, err)

	got, ok := NewMatcher(kb).Match("PIN please")
	require.True(t, ok)
	assert.Equal(t, "pong", got)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
