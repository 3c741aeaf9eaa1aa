// Package templates holds the HTML for the PublicFix screens.
package templates

import "embed"

//go:embed base.html pages/*.html
var FS embed.FS
