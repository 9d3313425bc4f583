package main

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalFlag(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().Float64("inflation-sigma", 1.25, "")

	v, err := decimalFlag(cmd, "inflation-sigma")
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.NewFromFloat(1.25)))
}

func TestDecimalFlag_UnknownName(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().Float64("inflation-sigma", 1.25, "")

	_, err := decimalFlag(cmd, "inflation-sgima")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "inflation-sgima")
}
