// Package envfile reads the `export NAME=VALUE` lines of a shell variables file
// without executing it.
package envfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultFile is the variables file looked up at the repository root.
const DefaultFile = "variables.sh"

// Vars maps variable names to their raw values.
type Vars map[string]string

// exportLine matches `export NAME = "VALUE"`. VALUE stops at the first character
// outside the class; a single quote on either side is dropped. Word characters
// include Unicode letters and digits.
var exportLine = regexp.MustCompile(
	`^(?i:export)[ \t]+` +
		`([\p{L}\p{N}_]*)[ \t]*=[ \t]*["']?` +
		`([\p{L}\p{N}_./${}:,()#* -]*)["']?`,
)

// Parse scans r line by line, with no limit on line length. Lines that are not export assignments are ignored;
// a later assignment to the same name wins.
func Parse(r io.Reader) (Vars, error) {
	vars := make(Vars)
	reader := bufio.NewReader(r)
	for {
		line, readErr := reader.ReadString('\n')
		if m := exportLine.FindStringSubmatch(strings.TrimRight(line, "\r\n")); m != nil {
			vars[m[1]] = m[2]
		}
		if errors.Is(readErr, io.EOF) {
			return vars, nil
		}
		if readErr != nil {
			return nil, fmt.Errorf("read variables: %w", readErr)
		}
	}
}

// Load parses dir/name. A missing file is not an error and yields an empty map.
func Load(dir, name string, logger zerolog.Logger) (Vars, error) {
	path := filepath.Join(dir, name)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info().Msgf("skip 'source %s' file not found", path)
			return Vars{}, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		logger.Info().Msgf("skip 'source %s' not a regular file", path)
		return Vars{}, nil
	}

	logger.Info().Msgf("running 'source %s'", path)
	vars, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return vars, nil
}
