package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gogpu/naga/glsl"
	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/glshim"
)

// config is the contents of a glshimc TOML file. Every field is optional.
//
//	glslc = "/opt/shaderc/bin/glslc"
//	spirv_cross = "spirv-cross"
//	target = "300 es"
//	min_version = 330
//	timeout = "10s"
type config struct {
	Glslc      string `toml:"glslc"`
	SPIRVCross string `toml:"spirv_cross"`
	Target     string `toml:"target"`
	MinVersion int    `toml:"min_version"`
	MinProfile string `toml:"min_profile"`
	Timeout    string `toml:"timeout"`
}

func loadConfig(path string) (config, error) {
	var c config
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := toml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// options converts the configuration to bridge options.
func (c config) options() ([]glshim.Option, error) {
	var opts []glshim.Option
	if c.Target != "" {
		v, err := parseTarget(c.Target)
		if err != nil {
			return nil, err
		}
		opts = append(opts, glshim.WithTarget(v))
	}
	if c.MinVersion != 0 {
		opts = append(opts, glshim.WithMinVersion(c.MinVersion, c.MinProfile))
	}
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return nil, fmt.Errorf("timeout: %w", err)
		}
		opts = append(opts, glshim.WithTranslateTimeout(d))
	}
	return opts, nil
}

// parseTarget accepts "300es", "300 es", "330", "330 core" and similar.
func parseTarget(s string) (glsl.Version, error) {
	f := strings.Fields(strings.ToLower(s))
	if len(f) == 1 && strings.HasSuffix(f[0], "es") {
		f = []string{strings.TrimSuffix(f[0], "es"), "es"}
	}
	if len(f) == 0 || len(f) > 2 {
		return glsl.Version{}, fmt.Errorf("invalid target %q", s)
	}
	n, err := strconv.Atoi(f[0])
	if err != nil || n < 100 || n >= 1000 {
		return glsl.Version{}, fmt.Errorf("invalid target %q", s)
	}
	v := glsl.Version{Major: uint8(n / 100), Minor: uint8(n % 100)}
	if len(f) == 2 {
		switch f[1] {
		case "es":
			v.ES = true
		case "core":
		default:
			return glsl.Version{}, fmt.Errorf("invalid target profile %q", f[1])
		}
	}
	return v, nil
}

// parseKind maps a stage name or a file extension to a shader kind.
func parseKind(stage, path string) (glshim.Kind, error) {
	if stage == "" {
		stage = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	switch stage {
	case "vert", "vs", "vertex":
		return glshim.KindVertex, nil
	case "frag", "fs", "fragment":
		return glshim.KindFragment, nil
	case "comp", "cs", "compute":
		return glshim.KindCompute, nil
	default:
		return 0, fmt.Errorf("%w: %q", glshim.ErrUnsupportedShaderKind, stage)
	}
}
