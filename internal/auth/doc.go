// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

// Package auth implements the Hireheaven credential lifecycle.
//
// # Domain Types
//
// Account is the registered identity. Its password hash never leaves this
// package boundary: callers receive the Profile projection instead.
//
// # Services
//
// CredentialService coordinates registration, login and the two-phase
// password reset:
//   - Register - validates role-dependent input, uploads a jobseeker resume,
//     inserts the account and issues a session token
//   - Login - verifies credentials and issues a session token
//   - ForgotPassword - issues a reset token, mirrors it into the ephemeral
//     store and hands a mail to the detached dispatcher
//   - ResetPassword - consumes a reset token exactly once
//   - AuthenticateSession - resolves a session token to an account id
//
// Every service operation returns either a result or a *Failure carrying a
// Kind. Lower-level errors are wrapped inside the failure and never returned
// bare.
//
// Collaborators (repository, token signer, ephemeral store, mail dispatcher,
// uploader) are interfaces; concrete implementations live in sibling
// packages and are injected by the serve command.
package auth
