package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/cookieslicer/pkg/slicer/logging"
)

// backups lists the numbered backups of path that exist, oldest last.
func backups(t *testing.T, path string) []string {
	t.Helper()

	var found []string
	for n := 1; n <= 20; n++ {
		name := path + "." + strconv.Itoa(n)
		if _, err := os.Stat(name); err == nil {
			found = append(found, name)
		}
	}
	return found
}

func writeLines(t *testing.T, w *logging.RotatingWriter, count int, line string) {
	t.Helper()

	for i := 0; i < count; i++ {
		_, err := w.Write([]byte(line + "\n"))
		require.NoError(t, err)
	}
}

func TestRotationBySize(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "size.log")

	writer, err := logging.NewRotatingWriter(logPath, logging.RotationConfig{MaxSize: 100, MaxBackups: 3})
	require.NoError(t, err)

	// 40 bytes per line: two lines fit, the third rotates.
	writeLines(t, writer, 3, strings.Repeat("a", 39))
	require.NoError(t, writer.Close())

	assert.Equal(t, []string{logPath + ".1"}, backups(t, logPath))

	current, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 39)+"\n", string(current))

	rotated, err := os.ReadFile(logPath + ".1")
	require.NoError(t, err)
	assert.Len(t, rotated, 80)
}

func TestRotationShiftsBackups(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "shift.log")

	writer, err := logging.NewRotatingWriter(logPath, logging.RotationConfig{MaxSize: 10, MaxBackups: 2})
	require.NoError(t, err)

	// Every line exceeds MaxSize on its own, so each write after the first
	// rotates.
	for _, line := range []string{"first-line", "second-line", "third-line", "fourth-line"} {
		_, err := writer.Write([]byte(line + "\n"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	assert.Equal(t, []string{logPath + ".1", logPath + ".2"}, backups(t, logPath))

	for path, want := range map[string]string{
		logPath:        "fourth-line\n",
		logPath + ".1": "third-line\n",
		logPath + ".2": "second-line\n",
	} {
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, want, string(content), path)
	}
}

func TestRotationWithoutBackups(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "nobackup.log")

	writer, err := logging.NewRotatingWriter(logPath, logging.RotationConfig{MaxSize: 10})
	require.NoError(t, err)
	writeLines(t, writer, 3, "0123456789")
	require.NoError(t, writer.Close())

	assert.Empty(t, backups(t, logPath))
	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "0123456789\n", string(content))
}

func TestRotationResumesExistingFile(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "resume.log")
	require.NoError(t, os.WriteFile(logPath, []byte(strings.Repeat("o", 60)), 0o644))

	writer, err := logging.NewRotatingWriter(logPath, logging.RotationConfig{MaxSize: 100, MaxBackups: 1})
	require.NoError(t, err)
	writeLines(t, writer, 1, strings.Repeat("n", 49))
	require.NoError(t, writer.Close())

	rotated, err := os.ReadFile(logPath + ".1")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("o", 60), string(rotated))
}

func TestRotationZeroMaxSizeUsesDefault(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "default.log")

	writer, err := logging.NewRotatingWriter(logPath, logging.RotationConfig{MaxBackups: logging.DefaultMaxBackups})
	require.NoError(t, err)
	writeLines(t, writer, 100, strings.Repeat("d", 99))
	require.NoError(t, writer.Close())

	assert.Empty(t, backups(t, logPath))
}

func TestRotationWriter(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "writer.log")

	writer, err := logging.NewRotatingWriter(logPath, logging.RotationConfig{MaxSize: 1024})
	require.NoError(t, err)

	data := []byte("test log line\n")
	n, err := writer.Write(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)

	require.NoError(t, writer.Close())
	assert.NoError(t, writer.Close(), "second Close should be a no-op")

	_, err = writer.Write(data)
	assert.ErrorIs(t, err, os.ErrClosed)

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(content))
}

func TestRotationDirCreation(t *testing.T) {
	t.Parallel()

	nestedPath := filepath.Join(t.TempDir(), "nested", "deep", "log.log")

	writer, err := logging.NewRotatingWriter(nestedPath, logging.RotationConfig{MaxSize: 1024})
	require.NoError(t, err, "NewRotatingWriter should create parent dirs")

	_, err = writer.Write([]byte("test\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	assert.FileExists(t, nestedPath)
}

func TestRotationConcurrentWrites(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "concurrent.log")

	writer, err := logging.NewRotatingWriter(logPath, logging.RotationConfig{
		MaxSize: 10 * 1024 * 1024, // large enough that nothing rotates
	})
	require.NoError(t, err)

	const numGoroutines = 10
	const numWrites = 100

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numWrites; j++ {
				if _, err := writer.Write([]byte(strings.Repeat("x", 50) + "\n")); err != nil {
					t.Errorf("Write() error = %v", err)
				}
			}
		}()
	}
	wg.Wait()

	require.NoError(t, writer.Close())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	assert.Len(t, lines, numGoroutines*numWrites)
}

func TestParseSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"10MiB", 10 * 1024 * 1024, false},
		{"5MB", 5 * 1000 * 1000, false},
		{" 512 ", 512, false},
		{"1 KiB", 1024, false},
		{"lots", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := logging.ParseSize(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, logging.ErrInvalidSize)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
