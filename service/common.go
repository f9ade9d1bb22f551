package service

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"quill/app/config"
	"quill/app/repositories/sqlite"
)

// Tests swap these. A nil out or in means the process's stdout or stdin,
// looked up at call time.
var (
	out        io.Writer
	in         io.Reader
	loadConfig = config.Load
)

func stdout() io.Writer {
	if out != nil {
		return out
	}
	return os.Stdout
}

func stdin() io.Reader {
	if in != nil {
		return in
	}
	return os.Stdin
}

func printf(format string, args ...interface{}) {
	fmt.Fprintf(stdout(), format, args...)
}

// confirm asks a yes/no question; anything but y or Y means no.
func confirm(question string) bool {
	printf("%s [y/N] ", question)
	line, _ := bufio.NewReader(stdin()).ReadString('\n')
	answer := strings.TrimSpace(line)
	return answer == "y" || answer == "Y"
}

// dataPath returns where the configured driver keeps its data on disk.
// The memory driver has none.
func dataPath(cfg *config.Config) (string, bool) {
	switch cfg.Store.Driver {
	case config.DriverBadger:
		return cfg.Store.BadgerPath, true
	case config.DriverSQLite:
		dsn := cfg.Store.SQLiteDSN
		if dsn == "" {
			dsn = sqlite.DefaultDSN
		}
		return strings.TrimPrefix(strings.SplitN(dsn, "?", 2)[0], "file:"), true
	default:
		return "", false
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
