package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// writeExtension writes a cfo-<name> shell script in a directory added to
// the PATH.
func writeExtension(t *testing.T, name, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("extensions are shell scripts")
	}
	bin := t.TempDir()
	if err := os.WriteFile(filepath.Join(bin, "cfo-"+name), []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestRunExtension(t *testing.T) {
	data := setup(t)
	writeExtension(t, "hello", `echo "args=$*"
echo "data=$`+EnvDataDir+`"
echo "plain=$`+EnvPlain+`"
exit 3
`)

	var out bytes.Buffer
	old := stdout
	stdout = &out
	defer func() { stdout = old }()

	found, code := RunExtension("hello", []string{"a", "b"})
	if !found {
		t.Fatalf("extension cfo-hello not found")
	}
	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
	for _, want := range []string{"args=a b", "data=" + data, "plain=true"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output:\n%s\nwant %q", out.String(), want)
		}
	}

	if found, _ := RunExtension("nope", nil); found {
		t.Errorf("RunExtension(\"nope\") found an extension")
	}
}

func TestIsCommand(t *testing.T) {
	for _, name := range []string{"help", "signup", "tx", "topic"} {
		if !IsCommand(name) {
			t.Errorf("IsCommand(%q) = false", name)
		}
	}
	if IsCommand("hello") {
		t.Errorf("IsCommand(\"hello\") = true")
	}
}
