// Copyright 2015 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package flags

import (
	"os"
	"os/user"
	"runtime"
	"testing"

	"github.com/urfave/cli/v2"
)

func TestPathExpansion(t *testing.T) {
	home := HomeDir()
	var tests map[string]string

	if runtime.GOOS == "windows" {
		tests = map[string]string{
			`/home/someuser/tmp`: `\home\someuser\tmp`,
			`~/tmp`:              home + `\tmp`,
			`~thisOtherUser/b/`:  `~thisOtherUser\b`,
			`$DDDXXX/a/b`:        `\tmp\a\b`,
			`/a/b/`:              `\a\b`,
		}
	} else {
		tests = map[string]string{
			`/home/someuser/tmp`: `/home/someuser/tmp`,
			`~/tmp`:              home + `/tmp`,
			`~thisOtherUser/b/`:  `~thisOtherUser/b`,
			`$DDDXXX/a/b`:        `/tmp/a/b`,
			`/a/b/`:              `/a/b`,
		}
	}
	t.Setenv(`DDDXXX`, `/tmp`)
	for test, expected := range tests {
		got := expandPath(test)
		if got != expected {
			t.Errorf(`test %s, got %s, expected %s\n`, test, got, expected)
		}
	}
}

func TestHomeDir(t *testing.T) {
	t.Setenv("HOME", "/somewhere")
	if have := HomeDir(); have != "/somewhere" {
		t.Errorf("home mismatch: have %s, want /somewhere", have)
	}
	t.Setenv("HOME", "")
	if usr, err := user.Current(); err == nil && HomeDir() != usr.HomeDir {
		t.Errorf("home mismatch: have %s, want %s", HomeDir(), usr.HomeDir)
	}
}

func TestDirectoryString(t *testing.T) {
	t.Setenv("OUTBASE", "/var/out")
	var s DirectoryString
	if err := s.Set("$OUTBASE/build/"); err != nil {
		t.Fatal(err)
	}
	if s.String() != "/var/out/build" {
		t.Errorf("value mismatch: have %s, want /var/out/build", s.String())
	}
}

func TestCheckEnvVars(t *testing.T) {
	app := cli.NewApp()
	app.Flags = []cli.Flag{&cli.IntFlag{Name: "verbosity", EnvVars: []string{"SOLCTEST_VERBOSITY"}}}
	app.Commands = []*cli.Command{{
		Name:  "compile",
		Flags: []cli.Flag{&DirectoryFlag{Name: "outdir", EnvVars: []string{"SOLCTEST_OUTDIR"}}},
	}}

	t.Setenv("SOLCTEST_VERBOSITY", "3")
	t.Setenv("SOLCTEST_OUTDIR", "/tmp")
	if err := CheckEnvVars(app, "SOLCTEST"); err != nil {
		t.Fatalf("known variables rejected: %v", err)
	}
	t.Setenv("SOLCTEST_VERBOSTY", "3")
	if err := CheckEnvVars(app, "SOLCTEST"); err == nil {
		t.Fatal("misspelled variable accepted")
	}
	os.Unsetenv("SOLCTEST_VERBOSTY")
	if err := CheckEnvVars(app, "SOLCTEST"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMerge(t *testing.T) {
	a := []cli.Flag{&cli.BoolFlag{Name: "a"}}
	b := []cli.Flag{&cli.BoolFlag{Name: "b"}, &cli.BoolFlag{Name: "c"}}
	if merged := Merge(a, b, nil); len(merged) != 3 {
		t.Errorf("length mismatch: have %d, want 3", len(merged))
	}
}
