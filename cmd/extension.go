package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
)

// Environment variables passed to the extensions.
const (
	EnvConfig  = "CRYPTOFOLIO_CONFIG"
	EnvDataDir = "CRYPTOFOLIO_DATA_DIR"
	EnvPlain   = "CRYPTOFOLIO_PLAIN"
)

// IsCommand tells whether name is a built-in command.
func IsCommand(name string) bool {
	switch name {
	case "help", "flags", "commands":
		return true
	}
	for _, g := range groups {
		for _, c := range g.commands {
			if c.Name() == name {
				return true
			}
		}
	}
	return false
}

// extensionEnv returns the environment of an extension: the current one plus
// the global flags that were set.
func extensionEnv() []string {
	env := os.Environ()
	if *configFile != "" {
		env = append(env, EnvConfig+"="+*configFile)
	}
	if *dataDir != "" {
		env = append(env, EnvDataDir+"="+*dataDir)
	}
	return append(env, EnvPlain+"="+strconv.FormatBool(*plain))
}

// RunExtension runs the cfo-<name> executable found in the PATH with args.
// It returns false if there is no such executable, and the exit code of the
// extension otherwise.
func RunExtension(name string, args []string) (bool, int) {
	bin := "cfo-" + name
	lp, err := exec.LookPath(bin)
	if err != nil {
		log.Printf("no extension %q: %v", bin, err)
		return false, 0
	}

	c := exec.Command(lp, args...)
	c.Stdin = os.Stdin
	c.Stdout = stdout
	c.Stderr = os.Stderr
	c.Env = extensionEnv()

	if err := c.Run(); err != nil {
		var exit *exec.ExitError
		if errors.As(err, &exit) {
			return true, exit.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error: cannot run %s: %v\n", bin, err)
		return true, 1
	}
	return true, 0
}
