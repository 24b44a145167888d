package config

import (
	_ "embed"
)

//go:embed defaults/zeroplay.yaml
var defaultYAML []byte
