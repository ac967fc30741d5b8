package monitor

import (
	"bufio"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFileName is the project-local ignore file read next to .gitignore.
const IgnoreFileName = ".shieldignore"

// defaultIgnores are never watched.
var defaultIgnores = []string{".git/", ".shield/", "node_modules/", "*.backup"}

// GetIgnoreRules combines the defaults, .gitignore, .shieldignore and extra
// patterns rooted at rootDir.
func GetIgnoreRules(rootDir string, extra ...string) *ignore.GitIgnore {
	allRules := append([]string{}, defaultIgnores...)
	for _, name := range []string{".gitignore", IgnoreFileName} {
		if rules, err := readIgnoreFile(filepath.Join(rootDir, name)); err == nil {
			allRules = append(allRules, rules...)
		}
	}
	allRules = append(allRules, extra...)
	return ignore.CompileIgnoreLines(allRules...)
}

// readIgnoreFile reads a single ignore file and returns its lines.
func readIgnoreFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
