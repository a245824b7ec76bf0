// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/diorama3d/diorama/base/errs"
	"github.com/diorama3d/diorama/events"
	"github.com/diorama3d/diorama/scene"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Options are the application-level settings, loadable from a config
// file with [OpenConfig].
type Options struct {

	// Name identifies the application in logs and lifecycle events.
	Name string `toml:"name" yaml:"name" json:"name"`

	// TargetFPS is the default render loop throttle for new scenes.
	TargetFPS int `toml:"target-fps" yaml:"target-fps" json:"targetFPS"`

	// HistoryCap bounds the global bus event history.
	HistoryCap int `toml:"history-cap" yaml:"history-cap" json:"historyCap"`
}

func (o *Options) defaults() {
	if o.Name == "" {
		o.Name = "diorama"
	}
	if o.TargetFPS == 0 {
		o.TargetFPS = scene.DefaultTargetFPS
	}
	if o.HistoryCap == 0 {
		o.HistoryCap = events.DefaultHistoryCap
	}
}

func (o *Options) validate() error {
	if o.TargetFPS < 0 {
		return errs.Validation("app.OpenConfig", "target-fps must be positive, got %d", o.TargetFPS)
	}
	if o.HistoryCap < 0 {
		return errs.Validation("app.OpenConfig", "history-cap must be non-negative, got %d", o.HistoryCap)
	}
	return nil
}

// OpenConfig loads options from a TOML, YAML, or JSON file, selected by
// extension, applying defaults to unset fields.
func OpenConfig(path string) (*Options, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	o := &Options{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(b, o)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, o)
	case ".json":
		err = json.Unmarshal(b, o)
	default:
		return nil, errs.Validation("app.OpenConfig", "unsupported config format %q", ext)
	}
	if err != nil {
		return nil, errs.Validation("app.OpenConfig", "invalid config %s: %v", path, err)
	}
	o.defaults()
	if err := o.validate(); err != nil {
		return nil, err
	}
	return o, nil
}
