// SPDX-License-Identifier: MPL-2.0

// Package platform holds the small amount of OS-specific knowledge venvkit
// needs: GOOS names and the file names Windows refuses to create.
package platform
