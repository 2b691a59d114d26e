// SPDX-License-Identifier: EPL-2.0

// Package cli turns the audroute command line into an app.Config.
package cli
