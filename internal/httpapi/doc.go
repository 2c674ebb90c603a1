// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

// Package httpapi exposes the credential, profile and company services over HTTP.
//
// Every response body is JSON. Failures carry {"message": ...} with a status
// chosen from the failure kind; internal causes are logged and never written
// to the client.
package httpapi
