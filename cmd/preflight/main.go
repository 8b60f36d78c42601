// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	token := strings.TrimSpace(os.Getenv("HF_TOKEN"))
	owner := strings.TrimSpace(os.Getenv("USERNAME"))
	spaces := strings.TrimSpace(os.Getenv("SPACE_LIST"))
	timeout := strings.TrimSpace(os.Getenv("GLOBAL_TIMEOUT_SECONDS"))
	outDir := strings.TrimSpace(os.Getenv("OUTPUT_DIR"))

	if token == "" {
		fail("HF_TOKEN is empty (rebuild requests will 401).")
	}
	ok("HF_TOKEN present")

	if owner == "" {
		fail("USERNAME is empty (space URLs cannot be built).")
	}
	ok("USERNAME=" + owner)

	if spaces == "" {
		warn("SPACE_LIST empty — the run will check nothing and exit 0.")
	} else {
		if strings.Contains(spaces, " ,") || strings.Contains(spaces, ", ") {
			warn("SPACE_LIST contains spaces around commas; they are trimmed, but prefer name1,name2")
		}
		ok("SPACE_LIST=" + spaces)
	}

	if timeout != "" {
		if _, err := strconv.Atoi(timeout); err != nil {
			fail("GLOBAL_TIMEOUT_SECONDS is not a number: " + timeout)
		}
		ok("GLOBAL_TIMEOUT_SECONDS=" + timeout)
	} else {
		warn("GLOBAL_TIMEOUT_SECONDS empty; default 1800 will be used.")
	}

	if outDir == "" {
		warn("OUTPUT_DIR empty; default docs/ will be used.")
	} else {
		ok("OUTPUT_DIR=" + outDir)
	}

	if os.Getenv("GITHUB_OUTPUT") == "" {
		warn("GITHUB_OUTPUT not set — exit_code output variable will be skipped.")
	}

	ok("preflight passed")
}
