package interpreter

import "time"

// registerNatives populates globals with every built-in callable the
// language defines ahead of user code running. The shape — a small table of
// named entries installed into the root environment at startup — is the one
// the reference decorator registry uses for its own builtin catalog; here it
// hosts exactly the one native the core language defines.
func registerNatives(globals *Environment) {
	natives := []*NativeFunction{
		{
			Name:   "clock",
			ArityN: 0,
			Function: func(_ *Interpreter, _ []Value) (Value, error) {
				return Number(time.Now().UnixMilli()), nil
			},
		},
	}
	for _, n := range natives {
		globals.Define(n.Name, n)
	}
}
