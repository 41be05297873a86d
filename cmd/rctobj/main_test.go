package main

import (
	"bytes"
	"errors"
	"flag"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnableTracing(t *testing.T) {
	out := new(bytes.Buffer)
	logger := log.New(out, "", 0)

	enableTracing(logger, flag.Set)
	assert.Empty(t, out.String())

	v := flag.Lookup("v")
	require.NotNil(t, v)
	assert.Equal(t, "2", v.Value.String())
	assert.Equal(t, "true", flag.Lookup("logtostderr").Value.String())
}

func TestEnableTracingFailure(t *testing.T) {
	out := new(bytes.Buffer)
	logger := log.New(out, "", 0)

	enableTracing(logger, func(name, value string) error {
		if name == "v" {
			return errors.New("no such flag")
		}
		return nil
	})
	assert.Equal(t, "Unable to set glog flag \"v\": no such flag\n", out.String())
}
