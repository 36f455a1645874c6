package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsObfuscated(t *testing.T) {
	require.False(t, isObfuscated(""))
	require.False(t, isObfuscated("plain readable script\necho hello\n"))

	// high non-alphanumeric ratio
	require.True(t, isObfuscated("%^&*!@#$%^&*()_+{}|:<>?"))

	// single line over 200 characters
	require.True(t, isObfuscated(strings.Repeat("a", 201)))
	require.False(t, isObfuscated(strings.Repeat("a", 200)))

	// repeated encoding markers
	require.True(t, isObfuscated("chr(1) chr(2) chr(3) chr(4) chr(5) chr(6)"))
	require.True(t, isObfuscated("base64 one base64 two base64 three"))
	require.False(t, isObfuscated("base64 mentioned once or base64 twice"))

	// the ratio counts runes, so multibyte characters do not dilute it:
	// one 3-byte symbol per two letters is a third of the runes
	require.True(t, isObfuscated(strings.Repeat("ab★", 20)))
}

func TestShannonEntropy(t *testing.T) {
	var counts [256]int64

	require.Zero(t, shannonEntropy(counts, 0))

	// single symbol carries no information
	counts['a'] = 1000
	require.Zero(t, shannonEntropy(counts, 1000))

	// uniform distribution over all byte values is 8 bits per byte
	var uniform [256]int64
	for i := range uniform {
		uniform[i] = 4
	}
	require.InDelta(t, 8.0, shannonEntropy(uniform, 1024), 0.0001)
}

func TestHasExecutableHeader(t *testing.T) {
	require.True(t, hasExecutableHeader([]byte("MZ\x90\x00")))
	require.False(t, hasExecutableHeader([]byte("ZM")))
	require.False(t, hasExecutableHeader([]byte("M")))
	require.False(t, hasExecutableHeader(nil))
}

func TestScanBinaryHeader(t *testing.T) {
	hit, ok := scanBinaryHeader([]byte("prefix WriteProcessMemory suffix"))
	require.True(t, ok)
	require.Equal(t, "WriteProcessMemory", hit)

	_, ok = scanBinaryHeader([]byte("nothing of interest"))
	require.False(t, ok)
}

func TestCheckSizeAnomaly(t *testing.T) {
	label, ok := checkSizeAnomaly(".exe", oversizedExecutable+1)
	require.True(t, ok)
	require.Equal(t, "Oversized Executable", label)

	_, ok = checkSizeAnomaly(".exe", oversizedExecutable)
	require.False(t, ok)

	label, ok = checkSizeAnomaly(".dll", oversizedLibrary+1)
	require.True(t, ok)
	require.Equal(t, "Oversized DLL", label)

	label, ok = checkSizeAnomaly(".ps1", oversizedScript+1)
	require.True(t, ok)
	require.Equal(t, "Oversized Script", label)

	_, ok = checkSizeAnomaly(".txt", 1<<30)
	require.False(t, ok)
}

func TestExtractMarkdownLinks(t *testing.T) {
	source := []byte(`# Title

An [inline link](http://example.com/a) and an image:

![diagram](http://example.com/img.png)

Plus an autolink <http://example.com/auto>.
`)
	links := extractMarkdownLinks(source)
	require.Contains(t, links, "http://example.com/a")
	require.Contains(t, links, "http://example.com/img.png")
	require.Contains(t, links, "http://example.com/auto")
}

func TestGuessType(t *testing.T) {
	require.Equal(t, "application/x-msdownload", guessType(".exe"))
	require.Equal(t, "text/x-batch", guessType(".bat"))
	require.Equal(t, "application/octet-stream", guessType(""))
	require.Equal(t, ".weird", guessType(".weird"))
}
