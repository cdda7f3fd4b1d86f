package codegen

import "fmt"

// rewriteStringCall maps a `str.method(args)` call to its Lua
// equivalent. spec.md §4.5 treats string method rewriting as a fixed
// table lookup keyed by method name, not a general call-site analysis;
// an unknown method is always a codegen-time rejection.
//
// replace is deliberately lowered through string.sub rather than
// string.gsub — spec.md §9 calls this out as a known quirk of the
// original implementation to preserve bug-for-bug rather than silently
// correct.
func rewriteStringCall(method string, obj string, args []string) (string, bool) {
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return "nil"
	}
	switch method {
	case "replace":
		return fmt.Sprintf("string.sub(%s, %s, %s)", obj, arg(0), arg(1)), true
	case "indexOf":
		if len(args) >= 2 {
			return fmt.Sprintf("((string.find(%s, %s, (%s)+1, true) or 0) - 1)", obj, arg(0), arg(1)), true
		}
		return fmt.Sprintf("((string.find(%s, %s, 1, true) or 0) - 1)", obj, arg(0)), true
	default:
		return "", false
	}
}

// rewriteStringProperty handles the one string property the emitter
// knows about: `.length`, which becomes Lua's `#` length operator.
func rewriteStringProperty(prop string, obj string) (string, bool) {
	if prop == "length" {
		return fmt.Sprintf("#%s", obj), true
	}
	return "", false
}

// rewriteArrayCall maps an `arr.method(args)` call to its Lua
// equivalent, leaning on the prelude's TS_* helpers for anything that
// needs a real loop (forEach/map/filter/some/every/slice) rather than
// having a one-line Lua stdlib equivalent.
func rewriteArrayCall(method string, obj string, args []string) (string, bool) {
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return "nil"
	}
	switch method {
	case "push":
		return fmt.Sprintf("table.insert(%s, %s)", obj, arg(0)), true
	case "forEach":
		return fmt.Sprintf("TS_forEach(%s, %s)", obj, arg(0)), true
	case "map":
		return fmt.Sprintf("TS_map(%s, %s)", obj, arg(0)), true
	case "filter":
		return fmt.Sprintf("TS_filter(%s, %s)", obj, arg(0)), true
	case "some":
		return fmt.Sprintf("TS_some(%s, %s)", obj, arg(0)), true
	case "every":
		return fmt.Sprintf("TS_every(%s, %s)", obj, arg(0)), true
	case "slice":
		if len(args) >= 2 {
			return fmt.Sprintf("TS_slice(%s, %s, %s)", obj, arg(0), arg(1)), true
		}
		return fmt.Sprintf("TS_slice(%s, %s)", obj, arg(0)), true
	default:
		return "", false
	}
}

// rewriteArrayProperty handles `.length` on arrays the same way it's
// handled on strings: Lua's `#` operator.
func rewriteArrayProperty(prop string, obj string) (string, bool) {
	if prop == "length" {
		return fmt.Sprintf("#%s", obj), true
	}
	return "", false
}
