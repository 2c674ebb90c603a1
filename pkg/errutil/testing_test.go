// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package errutil_test

import (
	"fmt"
	"testing"

	"github.com/samber/oops"

	"github.com/hireheaven/hireheaven/pkg/errutil"
)

func TestAssertErrorCode_MatchingCode(t *testing.T) {
	err := oops.Code("AUTH_REGISTER_FAILED").Errorf("test error")
	errutil.AssertErrorCode(t, err, "AUTH_REGISTER_FAILED")
}

func TestAssertErrorCode_ThroughStdlibWrap(t *testing.T) {
	err := fmt.Errorf("outer: %w", oops.Code("SKILL_ADD_FAILED").Errorf("inner"))
	errutil.AssertErrorCode(t, err, "SKILL_ADD_FAILED")
}

func TestAssertErrorContext_MatchingKeyValue(t *testing.T) {
	err := oops.With("operation", "create account").Errorf("test error")
	errutil.AssertErrorContext(t, err, "operation", "create account")
}
