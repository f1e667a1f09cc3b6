// Package quotefault embeds the files served by the quotefault binary.
package quotefault

import _ "embed"

// Readme is rendered on GET /.
//
//go:embed README.md
var Readme []byte
