package internal

import (
	"fmt"
	"strings"
	"sync/atomic"
	"unicode"
)

var appName = "muxd"

// the app name feeds unit names and socket paths very early, so it has
// its own lockdown tracker in addition to the main one
var appNameLocked atomic.Bool

// AppName is what the app calls itself in unit names, socket paths, and
// user-facing output. When customizing, overwrite it before calling
// Main().
func AppName() string {
	// once observed it cannot be changed
	appNameLocked.Store(true)
	return appName
}

func SetAppName(name string) {
	CheckCanCustomize()
	if appNameLocked.Load() {
		panic(fmt.Errorf("app name is locked"))
	}
	if name == "" {
		panic(fmt.Errorf("app name must not be empty"))
	}
	if strings.ContainsFunc(name, unicode.IsSpace) {
		panic(fmt.Errorf("app name must not contain whitespace"))
	}
	appName = name
}
