package output

import (
	"fmt"
	"strings"

	"github.com/taxrev/revenue-projector/internal/domain"
)

// GenerateReport writes a report into dir with the named formatter and returns
// the file paths written. "all" writes the verbose console, detailed CSV and xlsx outputs.
func GenerateReport(report *domain.Report, format, dir string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var paths []string
		for _, name := range []string{"console", "detailed-csv", "xlsx"} {
			path, err := WriteFormatted(GetFormatterByName(name), report, dir, Extension(name))
			if err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
		return paths, nil
	}

	f := GetFormatterByName(format)
	if f == nil {
		// enrich error with available formatters and aliases
		return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	path, err := WriteFormatted(f, report, dir, Extension(f.Name()))
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}
