package main

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(f func()) string {
	var buf bytes.Buffer
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan bool)
	go func() {
		_, _ = io.Copy(&buf, r)
		done <- true
	}()

	f()
	_ = w.Close()
	os.Stdout = oldStdout
	<-done

	return buf.String()
}

func callMain() (int, string) {
	exitCode := -1
	oldExit := exit
	defer func() { exit = oldExit }()
	exit = func(code int) {
		exitCode = code
		panic("exit")
	}

	output := captureOutput(func() {
		defer func() {
			if r := recover(); r != nil && r != "exit" {
				panic(r)
			}
		}()
		RealMain()
	})
	return exitCode, output
}

func TestMain(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	tests := []struct {
		name           string
		args           []string
		expectedExit   int
		expectedOutput string
	}{
		{
			name:           "no arguments",
			args:           []string{"quill"},
			expectedExit:   1,
			expectedOutput: "Usage: quill <command>",
		},
		{
			name:           "help command",
			args:           []string{"quill", "help"},
			expectedExit:   -1,
			expectedOutput: "Usage: quill <command> [options]",
		},
		{
			name:           "version command",
			args:           []string{"quill", "version"},
			expectedExit:   -1,
			expectedOutput: "quill version " + CliVersion,
		},
		{
			name:           "unknown command",
			args:           []string{"quill", "unknown"},
			expectedExit:   1,
			expectedOutput: "Unknown command: unknown",
		},
		{
			name:           "db without subcommand",
			args:           []string{"quill", "db"},
			expectedExit:   1,
			expectedOutput: "Usage: quill db <command>",
		},
		{
			name:           "db help",
			args:           []string{"quill", "db", "help"},
			expectedExit:   0,
			expectedOutput: "Usage: quill db <command>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			exitCode, output := callMain()

			assert.Contains(t, output, tt.expectedOutput)
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}

func TestPrintHelp(t *testing.T) {
	output := captureOutput(func() {
		printHelp()
	})

	assert.Contains(t, output, "Usage: quill")
	assert.Contains(t, output, "help")
	assert.Contains(t, output, "version")
	assert.Contains(t, output, "serve [--addr")
	assert.Contains(t, output, "db <init|clean|backup|restore")
}
