package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCommand(t *testing.T) {
	var sb strings.Builder
	versionCmd.SetOut(&sb)
	versionCmd.Run(versionCmd, nil)

	// no build stamp injected: say so instead of faking one
	assert.Equal(t, "pftabler dev (built unknown)\n", sb.String())
}
