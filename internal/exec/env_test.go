package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnviron(t *testing.T) {
	base := []string{
		"PATH=/usr/bin",
		"ANDROID_BUILD_TOP=/src",
		"ANDROID_SERIAL=emulator-5554",
		"ANDROID_TARGET_OUT_TESTCASES=/out/testcases",
		"HOME=/home/user",
	}

	env := Environ(base,
		[]string{"ANDROID_BUILD_TOP", "ANDROID_SERIAL", "ANDROID_HOST_OUT"},
		map[string]string{"ANDROID_TARGET_OUT_TESTCASES": "/tmp/suite/testcases"})

	assert.Equal(t, []string{
		"PATH=/usr/bin",
		"HOME=/home/user",
		"ANDROID_TARGET_OUT_TESTCASES=/tmp/suite/testcases",
	}, env)
}
