package server

import _ "embed"

//go:embed frontend/index.html
var indexHTML []byte
