// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gatehouse/gatehouse/internal/store"
)

func TestConnect_InvalidDSN(t *testing.T) {
	// Parse failures surface immediately, without the ping retry loop.
	_, err := store.Connect(context.Background(), "not a connection string")
	assert.Error(t, err)
}
