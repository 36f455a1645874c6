package classifier

import (
	"bytes"
	"io"
	"os"
)

// headerWindow bounds how much of a binary is inspected.
const headerWindow = 4096

// suspiciousByteStrings are API names and keywords commonly abused by
// malware. A hit in the header window flags the binary for review, it
// is not proof on its own.
var suspiciousByteStrings = [][]byte{
	[]byte("IsDebuggerPresent"), []byte("CheckRemoteDebuggerPresent"),
	[]byte("VirtualAlloc"), []byte("VirtualProtect"), []byte("CreateRemoteThread"),
	[]byte("WriteProcessMemory"), []byte("ReadProcessMemory"), []byte("SetWindowsHookEx"),
	[]byte("RegCreateKey"), []byte("RegSetValue"), []byte("CreateProcess"),
	[]byte("ShellExecute"), []byte("URLDownloadToFile"), []byte("WinExec"),
	[]byte("base64"), []byte("encrypt"), []byte("decrypt"), []byte("ransom"),
	[]byte("bitcoin"), []byte("wallet"), []byte("stealer"), []byte("keylogger"),
}

// readHeader returns up to headerWindow bytes from the start of path.
func readHeader(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf := make([]byte, headerWindow)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return buf[:n], nil
}

// scanBinaryHeader checks the header window for suspicious byte strings
// and returns the first match.
func scanBinaryHeader(header []byte) (string, bool) {
	for _, s := range suspiciousByteStrings {
		if bytes.Contains(header, s) {
			return string(s), true
		}
	}
	return "", false
}

// hasExecutableHeader reports whether the header starts with the DOS
// MZ magic, marking PE executable content.
func hasExecutableHeader(header []byte) bool {
	return len(header) >= 2 && header[0] == 'M' && header[1] == 'Z'
}
