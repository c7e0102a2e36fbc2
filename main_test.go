package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"csuite/cmd"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, "dev", version)
}

func TestSetVersion(t *testing.T) {
	orig := cmd.GetVersion()
	defer cmd.SetVersion(orig)

	cmd.SetVersion(version)
	assert.Equal(t, version, cmd.GetVersion())
}
