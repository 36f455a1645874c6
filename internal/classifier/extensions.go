package classifier

import (
	"path/filepath"
	"strings"
)

// textScriptExts are extensions whose content is decoded as text and
// run through the pattern rule set.
var textScriptExts = map[string]bool{
	".bat": true, ".cmd": true, ".txt": true, ".ps1": true,
	".vbs": true, ".js": true, ".hta": true, ".wsf": true,
	".md": true,
}

// binaryExts are extensions whose header window is scanned for
// suspicious byte strings.
var binaryExts = map[string]bool{
	".exe": true, ".dll": true, ".sys": true, ".scr": true, ".com": true,
}

// suspiciousExts cover the executable and loader classes that get the
// size-anomaly and wrong-extension checks.
var suspiciousExts = map[string]bool{
	".bat": true, ".cmd": true, ".exe": true, ".vbs": true, ".ps1": true,
	".js": true, ".jar": true, ".scr": true, ".pif": true, ".com": true,
	".dll": true, ".sys": true, ".drv": true, ".ocx": true, ".cpl": true,
	".msi": true, ".msu": true, ".msp": true, ".mst": true,
	".hta": true, ".wsf": true, ".wsh": true, ".reg": true, ".inf": true,
	".lnk": true, ".url": true, ".scf": true, ".chm": true,
}

// executableExts are the extensions where an MZ header is expected and
// therefore not suspicious on its own.
var executableExts = map[string]bool{
	".exe": true, ".com": true, ".scr": true, ".dll": true, ".sys": true,
}

// typeGuesses maps extensions to a coarse human-readable type.
var typeGuesses = map[string]string{
	".exe": "application/x-msdownload",
	".dll": "application/x-msdownload",
	".sys": "application/x-msdownload",
	".scr": "application/x-msdownload",
	".com": "application/x-msdownload",
	".bat": "text/x-batch",
	".cmd": "text/x-batch",
	".ps1": "text/x-powershell",
	".vbs": "text/x-vbscript",
	".js":  "text/javascript",
	".txt": "text/plain",
	".md":  "text/markdown",
	".hta": "text/x-hta",
	".wsf": "text/x-wsf",
}

func extOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// guessType returns a coarse content type from the extension, falling
// back to the extension itself the way the original did without libmagic.
func guessType(ext string) string {
	if t, ok := typeGuesses[ext]; ok {
		return t
	}
	if ext == "" {
		return "application/octet-stream"
	}
	return ext
}
