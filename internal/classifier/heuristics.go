package classifier

import "strings"

// entropyThreshold is the bits-per-byte level above which content is
// tagged high entropy. Compressed and encrypted data sits above 7.5;
// natural text and code sit well below.
const entropyThreshold = 7.5

// isObfuscated applies the lightweight obfuscation heuristic: a high
// ratio of non-alphanumeric characters, abnormally long lines, or
// repeated encoding markers. It is a secondary tag, never a verdict.
func isObfuscated(content string) bool {
	if len(content) == 0 {
		return false
	}

	special, total := 0, 0
	for _, c := range content {
		total++
		if !isAlnum(c) && c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			special++
		}
	}
	if float64(special)/float64(total) > 0.3 {
		return true
	}

	for _, line := range strings.Split(content, "\n") {
		if len(line) > 200 {
			return true
		}
	}

	if strings.Count(content, "chr(") > 5 || strings.Count(content, "base64") > 2 {
		return true
	}

	return false
}

func isAlnum(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
