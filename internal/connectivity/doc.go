// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package connectivity decides whether the host has any active network
// transport.
//
// The chat screen consults a Checker whenever it resumes (program start,
// terminal focus regained, job-control resume). When the check reports no
// transport the screen blocks behind a dialog whose only action exits.
//
// The result is advisory. Connectivity lost after a check surfaces as a
// failed request, not through this package.
//
// # Key Types
//
//   - Checker: anything that can report a Status
//   - InterfaceChecker: inspects the host's network interfaces
//   - CheckerFunc: adapts a function, mostly for tests
//   - Status: online, offline or unknown
//
// # Usage
//
//	status, err := connectivity.NewInterfaceChecker().Check(ctx)
//	if status == connectivity.Offline {
//		fmt.Println(connectivity.DialogTitle)
//	}
package connectivity
