package executor_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruminaider/pswitch/internal/executor"
	"github.com/ruminaider/pswitch/internal/profile"
)

func TestApplyFileReplace(t *testing.T) {
	t.Run("writes content to target", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "settings.json")
		res := executor.Apply(profile.ConfigItem{
			ID: "i1", Type: profile.ItemFileReplace, Label: "settings",
			Enabled: true, TargetPath: target, Content: `{"a":1}`,
		})

		require.True(t, res.Success, res.Error)
		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, `{"a":1}`, string(data))
	})

	t.Run("creates missing parent directories", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "deep", "nested", "file.txt")
		res := executor.Apply(profile.ConfigItem{
			ID: "i1", Type: profile.ItemFileReplace, TargetPath: target, Content: "x",
		})

		require.True(t, res.Success, res.Error)
		assert.FileExists(t, target)
	})

	t.Run("overwrites existing content completely", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "file.txt")
		require.NoError(t, os.WriteFile(target, []byte("old content that is longer"), 0644))

		res := executor.Apply(profile.ConfigItem{
			ID: "i1", Type: profile.ItemFileReplace, TargetPath: target, Content: "new",
		})

		require.True(t, res.Success)
		data, _ := os.ReadFile(target)
		assert.Equal(t, "new", string(data))
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "file.txt")
		res := executor.Apply(profile.ConfigItem{
			ID: "i1", Type: profile.ItemFileReplace, TargetPath: target, Content: "x",
		})
		require.True(t, res.Success)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestApplyEnvVar(t *testing.T) {
	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), ".profile")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	item := func(file, name, value string) profile.ConfigItem {
		return profile.ConfigItem{
			ID: "e1", Type: profile.ItemEnvVar, Label: "env",
			Name: name, Value: value, ShellFile: file,
		}
	}

	t.Run("replaces existing export line in place", func(t *testing.T) {
		file := write(t, "# header\nexport TOKEN=\"old\"\nalias ll='ls -l'\n")
		res := executor.Apply(item(file, "TOKEN", "new"))

		require.True(t, res.Success, res.Error)
		data, _ := os.ReadFile(file)
		assert.Equal(t, "# header\nexport TOKEN=\"new\"\nalias ll='ls -l'\n", string(data))
	})

	t.Run("replaces every duplicate export line", func(t *testing.T) {
		file := write(t, "export A=\"1\"\nexport A=\"2\"\n")
		res := executor.Apply(item(file, "A", "3"))

		require.True(t, res.Success)
		data, _ := os.ReadFile(file)
		assert.Equal(t, "export A=\"3\"\nexport A=\"3\"\n", string(data))
	})

	t.Run("commented export is preserved and new line appended", func(t *testing.T) {
		file := write(t, "#export FOO=old\n")
		res := executor.Apply(item(file, "FOO", "new"))

		require.True(t, res.Success)
		data, _ := os.ReadFile(file)
		assert.Contains(t, string(data), "#export FOO=old\n")
		assert.Contains(t, string(data), "export FOO=\"new\"\n")
	})

	t.Run("appends to file without the variable", func(t *testing.T) {
		file := write(t, "alias g=git")
		res := executor.Apply(item(file, "NEWVAR", "v"))

		require.True(t, res.Success)
		data, _ := os.ReadFile(file)
		assert.Equal(t, "alias g=git\nexport NEWVAR=\"v\"\n", string(data))
	})

	t.Run("missing shell file is treated as empty", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), ".zshrc")
		res := executor.Apply(item(file, "A", "1"))

		require.True(t, res.Success)
		data, _ := os.ReadFile(file)
		assert.Equal(t, "export A=\"1\"\n", string(data))
	})

	t.Run("applying twice yields identical content", func(t *testing.T) {
		file := write(t, "export A=\"old\"\n")
		require.True(t, executor.Apply(item(file, "A", "new")).Success)
		first, _ := os.ReadFile(file)

		require.True(t, executor.Apply(item(file, "A", "new")).Success)
		second, _ := os.ReadFile(file)
		assert.Equal(t, string(first), string(second))
	})

	t.Run("escapes shell metacharacters", func(t *testing.T) {
		file := write(t, "")
		res := executor.Apply(item(file, "A", `pa$s"w\ord`+"`x`"))

		require.True(t, res.Success)
		data, _ := os.ReadFile(file)
		assert.Equal(t, "export A=\"pa\\$s\\\"w\\\\ord\\`x\\`\"\n", string(data))
	})

	t.Run("invalid name fails without touching the file", func(t *testing.T) {
		file := write(t, "untouched\n")
		res := executor.Apply(item(file, "1BAD-NAME", "v"))

		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "invalid environment variable name")
		data, _ := os.ReadFile(file)
		assert.Equal(t, "untouched\n", string(data))
	})
}

func TestApplyRunCommand(t *testing.T) {
	t.Run("captures stdout of a successful command", func(t *testing.T) {
		res := executor.Apply(profile.ConfigItem{
			ID: "c1", Type: profile.ItemRunCommand, Command: "echo hello",
		})

		require.True(t, res.Success, res.Error)
		assert.Equal(t, "hello\n", res.Stdout)
	})

	t.Run("runs in the given working directory", func(t *testing.T) {
		dir := t.TempDir()
		res := executor.Apply(profile.ConfigItem{
			ID: "c1", Type: profile.ItemRunCommand, Command: "pwd", WorkingDir: dir,
		})

		require.True(t, res.Success)
		assert.Contains(t, res.Stdout, filepath.Base(dir))
	})

	t.Run("non-zero exit is failure with output preserved", func(t *testing.T) {
		res := executor.Apply(profile.ConfigItem{
			ID: "c1", Type: profile.ItemRunCommand, Command: "echo out; echo err >&2; exit 3",
		})

		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "exited with code 3")
		assert.Equal(t, "out\n", res.Stdout)
		assert.Equal(t, "err\n", res.Stderr)
	})

	t.Run("timeout kills the process", func(t *testing.T) {
		start := time.Now()
		res := executor.Apply(profile.ConfigItem{
			ID: "c1", Type: profile.ItemRunCommand, Command: "sleep 60", TimeoutMs: 100,
		})
		elapsed := time.Since(start)

		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "timed out")
		// timeout + 5s grace + margin; sleep dies on SIGTERM so this is
		// normally well under a second
		assert.Less(t, elapsed, 10*time.Second)
	})
}

func TestApplyUnknownType(t *testing.T) {
	res := executor.Apply(profile.ConfigItem{ID: "x", Type: "mystery"})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "unknown item type")
}
