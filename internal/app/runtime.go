package app

import (
	"os"
	"sync"
)

const testModeEnv = "MERIDIAN_TEST_MODE"

var testMode struct {
	sync.Once
	on bool
}

// InTestMode reports whether the mains should skip listening and worker
// startup. CI sets MERIDIAN_TEST_MODE=1 to exercise startup wiring without
// live backends.
func InTestMode() bool {
	testMode.Do(func() {
		testMode.on = os.Getenv(testModeEnv) == "1"
	})
	return testMode.on
}
