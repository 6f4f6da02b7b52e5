package assert

import "github.com/gdsim/gdsim/gerror"

func IsTrue(ok bool, message string, args ...any) {
	if !ok {
		panic(gerror.New(message, args...))
	}
}
