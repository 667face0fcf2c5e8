package main

import (
	"os"
	"regexp"
	"strings"

	"catalog-cli/internal/cli"
)

var courseIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

func isCourseID(s string) bool {
	return courseIDPattern.MatchString(strings.TrimSpace(s))
}

// rewriteDirectCourseLookupArgs lets `catalog <course-id>` work like
// `catalog courses show <course-id>`. Cobra treats the first positional token as a
// subcommand, so argv is rewritten before parsing; persistent flags may come first.
func rewriteDirectCourseLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Unknown flags are skipped without consuming a value, so a course id after
	// them is still found.
	valueFlags := map[string]bool{
		"--config":    true,
		"--api":       true,
		"--format":    true,
		"--log-level": true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	rewrite := func(at int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:at]...)
		out = append(out, "courses", "show")
		out = append(out, argv[at:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isCourseID(argv[i+1]) {
				return rewrite(i + 1)
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}

		if isCourseID(a) {
			return rewrite(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectCourseLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cli.Execute(cmd); err != nil {
		os.Exit(1)
	}
}
