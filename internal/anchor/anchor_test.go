package anchor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruminaider/pswitch/internal/anchor"
	"github.com/ruminaider/pswitch/internal/profile"
)

func TestCheckJSONPath(t *testing.T) {
	content := `{"tokens":{"account_id":"acct_1","limit":42},"x":1}`

	t.Run("matching nested value", func(t *testing.T) {
		a := &profile.Anchor{Type: profile.AnchorJSONPath, Path: "tokens.account_id", Value: "acct_1"}
		assert.True(t, anchor.Check(a, content))
	})

	t.Run("value mismatch", func(t *testing.T) {
		a := &profile.Anchor{Type: profile.AnchorJSONPath, Path: "tokens.account_id", Value: "acct_2"}
		assert.False(t, anchor.Check(a, content))
	})

	t.Run("numeric value compared as text", func(t *testing.T) {
		a := &profile.Anchor{Type: profile.AnchorJSONPath, Path: "tokens.limit", Value: "42"}
		assert.True(t, anchor.Check(a, content))
	})

	t.Run("missing path", func(t *testing.T) {
		a := &profile.Anchor{Type: profile.AnchorJSONPath, Path: "tokens.nope", Value: "x"}
		assert.False(t, anchor.Check(a, content))
	})

	t.Run("invalid JSON is no match", func(t *testing.T) {
		a := &profile.Anchor{Type: profile.AnchorJSONPath, Path: "tokens.account_id", Value: "acct_1"}
		assert.False(t, anchor.Check(a, "not json"))
	})

	t.Run("array mid-path is no match", func(t *testing.T) {
		a := &profile.Anchor{Type: profile.AnchorJSONPath, Path: "list.0", Value: "a"}
		assert.False(t, anchor.Check(a, `{"list":["a","b"]}`))
	})
}

func TestLookupJSONPath(t *testing.T) {
	t.Run("parse failure is an error", func(t *testing.T) {
		_, _, err := anchor.LookupJSONPath("{broken", "a.b")
		require.Error(t, err)
	})

	t.Run("missing key is not an error", func(t *testing.T) {
		_, ok, err := anchor.LookupJSONPath(`{"a":1}`, "a.b")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCheckLineContent(t *testing.T) {
	content := "first\nsecond\nthird"

	t.Run("matching line", func(t *testing.T) {
		a := &profile.Anchor{Type: profile.AnchorLineContent, Line: 2, Value: "second"}
		assert.True(t, anchor.Check(a, content))
	})

	t.Run("wrong content", func(t *testing.T) {
		a := &profile.Anchor{Type: profile.AnchorLineContent, Line: 2, Value: "first"}
		assert.False(t, anchor.Check(a, content))
	})

	t.Run("line out of range", func(t *testing.T) {
		a := &profile.Anchor{Type: profile.AnchorLineContent, Line: 9, Value: "x"}
		assert.False(t, anchor.Check(a, content))
	})
}

func TestCheckEnvValue(t *testing.T) {
	content := "# comment\nexport API_KEY=\"secret\"\nexport OTHER=plain\n"

	t.Run("quoted value matches unquoted anchor", func(t *testing.T) {
		a := &profile.Anchor{Type: profile.AnchorEnvValue, Name: "API_KEY", Value: "secret"}
		assert.True(t, anchor.Check(a, content))
	})

	t.Run("unquoted value", func(t *testing.T) {
		a := &profile.Anchor{Type: profile.AnchorEnvValue, Name: "OTHER", Value: "plain"}
		assert.True(t, anchor.Check(a, content))
	})

	t.Run("absent variable", func(t *testing.T) {
		a := &profile.Anchor{Type: profile.AnchorEnvValue, Name: "MISSING", Value: "x"}
		assert.False(t, anchor.Check(a, content))
	})

	t.Run("commented export does not count", func(t *testing.T) {
		a := &profile.Anchor{Type: profile.AnchorEnvValue, Name: "FOO", Value: "old"}
		assert.False(t, anchor.Check(a, "#export FOO=old\n"))
	})
}

func TestExtractEnvValue(t *testing.T) {
	t.Run("first occurrence wins", func(t *testing.T) {
		v, ok := anchor.ExtractEnvValue("export A=\"one\"\nexport A=\"two\"\n", "A")
		require.True(t, ok)
		assert.Equal(t, "one", v)
	})

	t.Run("substring names do not match", func(t *testing.T) {
		_, ok := anchor.ExtractEnvValue("export ABC=1\n", "AB")
		assert.False(t, ok)
	})

	t.Run("interior quotes preserved", func(t *testing.T) {
		v, ok := anchor.ExtractEnvValue(`export A=say "hi"`+"\n", "A")
		require.True(t, ok)
		assert.Equal(t, `say "hi"`, v)
	})
}

func TestCheckNilAnchor(t *testing.T) {
	assert.False(t, anchor.Check(nil, "anything"))
}
