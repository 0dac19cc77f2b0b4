package host

// This file defines the builtin context available to every template. The
// static part is computed once per process and cloned on every access, so
// callers may add to the returned object without affecting the shared copy.
// Process environment variables are read on each call.

import (
	"bufio"
	"maps"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/ardnew/mung"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ardnew/jtl/lang"
)

// Private singleton cache.
//
//nolint:gochecknoglobals
var (
	builtinOnce  sync.Once
	builtinCache lang.Object
)

// Builtins returns the builtin context: host information, filesystem and
// path functions, PATH munging, string case conversion, and the process
// environment.
//
//	target.os, target.arch       GNU/LLVM naming, e.g. x86_64
//	platform.os, platform.arch   Go naming, e.g. amd64
//	hostname, shell              strings
//	user.name, user.username, user.uid, user.gid, user.home
//	cwd                          {cwd}
//	env.NAME                     process environment variable NAME
//	getenv                       {getenv|"NAME"}
//	file.exists, file.isDir, file.isRegular, file.isSymlink
//	path.abs, path.cat, path.rel, path.base, path.dir
//	mung.prefix, mung.prefixif   {mung.prefix|env.PATH; "/opt/bin"}
//	str.upper, str.lower, str.title, str.trim, str.join
//
// File predicates return "true" or "false".
func Builtins() lang.Object {
	builtinOnce.Do(func() {
		builtinCache = lang.Object{
			// System information.
			"target":   targetObject(getTarget()),
			"platform": targetObject(getPlatform()),
			"hostname": lang.String(getHostname()),
			"user":     userObject(getUser()),
			"shell":    lang.String(getShell()),

			// Working directory.
			"cwd": fn0(getCwd),

			"getenv": fn1(os.Getenv),

			// Filesystem predicates.
			"file": lang.Object{
				"exists":    pred(fileExists),
				"isDir":     pred(fileIsDir),
				"isRegular": pred(fileIsRegular),
				"isSymlink": pred(fileIsSymlink),
			},

			// Path manipulation.
			"path": lang.Object{
				"abs":  fn1(pathAbs),
				"cat":  fnN(pathCat),
				"rel":  fn2(pathRel),
				"base": fn1(filepath.Base),
				"dir":  fn1(filepath.Dir),
			},

			// PATH-like string manipulation via mung.
			"mung": lang.Object{
				"prefix":   fnHead(mungPrefix),
				"prefixif": fnHead(mungPrefixDirs),
			},

			// Case conversion.
			"str": lang.Object{
				"upper": caser(func() cases.Caser { return cases.Upper(language.Und) }),
				"lower": caser(func() cases.Caser { return cases.Lower(language.Und) }),
				"title": caser(func() cases.Caser { return cases.Title(language.Und) }),
				"trim":  fn1(strings.TrimSpace),
				"join":  fnHead(strJoin),
			},
		}
	})

	out := maps.Clone(builtinCache)
	out["env"] = envObject(nil)

	return out
}

// ---------------------------------------------------------------------------
// System information helpers
// ---------------------------------------------------------------------------

// target contains string identifiers for a target operating system and
// instruction set architecture.
type target struct {
	OS   string
	Arch string
}

func targetObject(t target) lang.Object {
	return lang.Object{
		"os":   lang.String(t.OS),
		"arch": lang.String(t.Arch),
	}
}

// getTarget returns the host target using GNU GCC/LLVM naming conventions.
func getTarget() target {
	t := getPlatform()

	switch t.Arch {
	case "386":
		t.Arch = "i386"
	case "amd64":
		t.Arch = "x86_64"
	case "arm":
		if arm, ok := os.LookupEnv("GOARM"); ok {
			arm, _, _ = strings.Cut(arm, ",")
			switch strings.TrimSpace(arm) {
			case "5", "6", "7":
				t.Arch = "armv" + arm
			}
		}
	case "arm64":
		if t.OS != "darwin" {
			t.Arch = "aarch64"
		}
	case "mipsle":
		t.Arch = "mipsel"
	}

	return t
}

// getPlatform returns the host target using Go conventions.
func getPlatform() target {
	var (
		o, a string
		ok   bool
	)

	if o, ok = os.LookupEnv("GOHOSTOS"); !ok {
		if o, ok = os.LookupEnv("GOOS"); !ok {
			o = runtime.GOOS
		}
	}

	if a, ok = os.LookupEnv("GOHOSTARCH"); !ok {
		if a, ok = os.LookupEnv("GOARCH"); !ok {
			a = runtime.GOARCH
		}
	}

	return target{OS: o, Arch: a}
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return ""
	}

	return hostname
}

func getUser() *user.User {
	u, err := user.Current()
	if err != nil {
		return nil
	}

	return u
}

func userObject(u *user.User) lang.Object {
	if u == nil {
		return lang.Object{}
	}

	return lang.Object{
		"name":     lang.String(u.Name),
		"username": lang.String(u.Username),
		"uid":      lang.String(u.Uid),
		"gid":      lang.String(u.Gid),
		"home":     lang.String(u.HomeDir),
	}
}

func getShell() string {
	if shell, ok := os.LookupEnv("SHELL"); ok {
		return shell
	}

	u := getUser()
	if u == nil || u.Username == "" {
		return ""
	}

	f, err := os.Open("/etc/passwd")
	if err != nil {
		return ""
	}

	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		e := strings.Split(s.Text(), ":")
		if len(e) > 6 && e[0] == u.Username {
			return e[6]
		}
	}

	return ""
}

func getCwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return pathAbs(".")
	}

	return cwd
}

// ---------------------------------------------------------------------------
// Filesystem predicates
// ---------------------------------------------------------------------------

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

func fileIsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.IsDir()
}

func fileIsRegular(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular()
}

func fileIsSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeSymlink != 0
}

// ---------------------------------------------------------------------------
// Path manipulation
// ---------------------------------------------------------------------------

func pathAbs(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}

func pathCat(elem ...string) string {
	return filepath.Join(elem...)
}

func pathRel(from, to string) string {
	p, err := filepath.Rel(pathAbs(from), pathAbs(to))
	if err != nil {
		return pathCat(from, to)
	}

	return p
}

// ---------------------------------------------------------------------------
// PATH-like string manipulation (mung)
// ---------------------------------------------------------------------------

// mungPrefix prepends prefix items to the list subject, removing duplicates.
func mungPrefix(subject string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}

// mungPrefixDirs is mungPrefix keeping only items that are directories.
func mungPrefixDirs(subject string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(fileIsDir),
	).String()
}

func strJoin(sep string, elem ...string) string {
	return strings.Join(elem, sep)
}

// ---------------------------------------------------------------------------
// Process environment
// ---------------------------------------------------------------------------

// envObject converts a "KEY=VALUE" string slice to an object.
// If envList is empty, os.Environ() is used.
func envObject(envList []string, keyVal ...string) lang.Object {
	envList = append(envList, keyVal...)
	if len(envList) == 0 {
		envList = os.Environ()
	}

	result := make(lang.Object, len(envList))

	for _, entry := range envList {
		if key, value, ok := strings.Cut(entry, "="); ok {
			result[key] = lang.String(value)
		}
	}

	return result
}
