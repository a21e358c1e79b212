// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listRequest struct {
	Limit    int    `validate:"min=1,max=100"`
	Industry string `validate:"omitempty,oneof=dental aesthetic"`
	Cursor   string `validate:"omitempty,base64"`
}

func TestValidateStructPasses(t *testing.T) {
	assert.Nil(t, ValidateStruct(&listRequest{Limit: 20}))
	assert.Nil(t, ValidateStruct(&listRequest{Limit: 100, Industry: "dental"}))
	assert.Nil(t, ValidateStruct(&listRequest{Limit: 1, Cursor: "eyJpZCI6ICJhIn0="}))
}

func TestValidateStructSingleError(t *testing.T) {
	err := ValidateStruct(&listRequest{Limit: 0})
	require.NotNil(t, err)
	require.Len(t, err.Errors(), 1)

	apiErr := err.ToAPIError()
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Contains(t, apiErr.Message, "Limit must be at least 1")
	assert.Equal(t, "Limit", apiErr.Details["field"])
}

func TestValidateStructOneofError(t *testing.T) {
	err := ValidateStruct(&listRequest{Limit: 10, Industry: "veterinary"})
	require.NotNil(t, err)

	apiErr := err.ToAPIError()
	assert.Contains(t, apiErr.Message, "must be one of: dental aesthetic")
}

func TestValidateStructMultipleErrors(t *testing.T) {
	err := ValidateStruct(&listRequest{Limit: 500, Industry: "bogus", Cursor: "!!!"})
	require.NotNil(t, err)
	require.Len(t, err.Errors(), 3)

	apiErr := err.ToAPIError()
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	require.True(t, ok)
	assert.Len(t, fields, 3)
}

func TestValidateStructStringLength(t *testing.T) {
	type named struct {
		Name string `validate:"min=3"`
	}
	err := ValidateStruct(&named{Name: "ab"})
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "at least 3 characters")
}

func TestGetValidatorReturnsSameInstance(t *testing.T) {
	assert.Same(t, GetValidator(), GetValidator())
}
