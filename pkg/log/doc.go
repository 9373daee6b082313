// Package log wraps the standard library logger with per component names
// and debug switches.
//
// Each component of the front end asks for its own logger:
//
//	l := log.ForService("plone")
//	l.Infof("GET %s", u)
//	l.Debugf("payload: %s", body) // only with --debug or EnableDebugFor("plone")
//
// Lines look like
//
//	2025/01/02 15:04:05.000000 WARN [slate>] unknown element type "foo"
//
// Debug output can be enabled for everything (SetGlobalDebug, the --debug
// flag) or for selected components (EnableDebugFor, the PLONEVIEW_DEBUG
// environment variable holding a comma separated list).
//
// Tests capture output with SetOutput and a bytes.Buffer. All functions are
// safe for concurrent use.
//
// The package name shadows the standard library "log"; alias one of the two
// when both are needed.
package log
