package main

import (
	"fmt"
	"os"
	"strings"

	"quill/service"
)

// CliVersion is reported by the version command.
const CliVersion = "1.0.0"

// exit is swapped out by tests.
var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches os.Args to the matching command.
func RealMain() {
	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("quill version %s\n", CliVersion)
	case "serve":
		exit(service.HandleCommand(append([]string{"serve"}, os.Args[2:]...)))
	case "db":
		if len(os.Args) < 3 {
			exit(service.HandleCommand([]string{"help"}) + 1)
			return
		}
		exit(service.HandleCommand(os.Args[2:]))
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		exit(1)
	}
}

func printHelp() {
	helpText := `Usage: quill <command> [options]
Commands:
  help                           Display this help message.
  version                        Show version information.
  serve [--addr <host:port>]     Run the blog API server.
  db <init|clean|backup|restore <file>|help>
                                 Manage the database.

Configuration is read from QUILL_* environment variables and an optional
.env file in the working directory.
`
	fmt.Println(helpText)
}
