/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package config loads the tool configuration from YAML and the SMD_*
// environment, with defaults matching a US Letter Courier screenplay.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"screenmd/internal/layout"
)

// ErrInvalid marks configuration validation failures so callers can tell a
// bad config file from a bad script.
var ErrInvalid = errors.New("invalid configuration")

// Font selects the typeface for page rendering. When Regular is empty the
// renderer falls back to the built-in Courier core font and simulates bold.
type Font struct {
	Family  string  `yaml:"family"`
	Regular string  `yaml:"regular"` // path to a TTF file
	Bold    string  `yaml:"bold"`    // optional bold TTF path
	SizePt  float64 `yaml:"size_pt"`
}

// Page holds the physical geometry in inches.
type Page struct {
	WidthIn           float64 `yaml:"width_in"`
	HeightIn          float64 `yaml:"height_in"`
	TopIn             float64 `yaml:"top_in"`
	BottomIn          float64 `yaml:"bottom_in"`
	TransitionRightIn float64 `yaml:"transition_right_in"`
}

// Timing drives the FCPXML speech-rate model.
type Timing struct {
	WPM             float64 `yaml:"wpm"`
	FPS             int     `yaml:"fps"`
	MinBlockSeconds float64 `yaml:"min_block_seconds"`
}

// ShotList configures the derived shot list views. Format is the default
// output shape: "csv", "md", or "pdf".
type ShotList struct {
	Format          string `yaml:"format"`
	IncludeEntities bool   `yaml:"include_entities"`
}

// Entities tunes the heuristic entity extractor. An empty Stoplist keeps the
// built-in one.
type Entities struct {
	Stoplist       []string `yaml:"stoplist"`
	MinTokenLen    int      `yaml:"min_token_len"`
	UppercaseRatio float64  `yaml:"uppercase_ratio"`
}

// Logging mirrors the SMD_LOG_* environment knobs.
type Logging struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	AddSource bool   `yaml:"add_source"`
	File      string `yaml:"file"`
}

// Config is the full tool configuration.
type Config struct {
	Font     Font     `yaml:"font"`
	Page     Page     `yaml:"page"`
	Leading  float64  `yaml:"leading_pt"`
	Timing   Timing   `yaml:"timing"`
	ShotList ShotList `yaml:"shotlist"`
	Entities Entities `yaml:"entities"`
	Logging  Logging  `yaml:"logging"`
}

// Defaults returns the configuration used when no file is given.
func Defaults() Config {
	return Config{
		Font: Font{Family: "Courier", SizePt: 12},
		Page: Page{
			WidthIn: 8.5, HeightIn: 11,
			TopIn: 1, BottomIn: 1, TransitionRightIn: 1,
		},
		Leading: 2,
		Timing: Timing{
			WPM: 160, FPS: 25, MinBlockSeconds: 1,
		},
		ShotList: ShotList{Format: "csv", IncludeEntities: true},
		Entities: Entities{MinTokenLen: 3, UppercaseRatio: 0.8},
	}
}

// Load reads path into the defaults. An empty path returns Defaults with the
// environment applied. Unknown YAML keys are rejected.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := unmarshalStrict(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func unmarshalStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SMD_FONT_SIZE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Font.SizePt = f
		}
	}
	if v := os.Getenv("SMD_WPM"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Timing.WPM = f
		}
	}
	if v := os.Getenv("SMD_FPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Timing.FPS = n
		}
	}
	if v := os.Getenv("SMD_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SMD_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("SMD_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
}

// Validate checks ranges. All failures wrap ErrInvalid.
func (c *Config) Validate() error {
	if c.Font.SizePt <= 0 {
		return fmt.Errorf("%w: font size %v must be positive", ErrInvalid, c.Font.SizePt)
	}
	if c.Font.Bold != "" && c.Font.Regular == "" {
		return fmt.Errorf("%w: bold font given without regular", ErrInvalid)
	}
	if err := c.Geometry().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Timing.WPM <= 0 {
		return fmt.Errorf("%w: wpm %v must be positive", ErrInvalid, c.Timing.WPM)
	}
	if c.Timing.FPS <= 0 {
		return fmt.Errorf("%w: fps %d must be positive", ErrInvalid, c.Timing.FPS)
	}
	if c.Timing.MinBlockSeconds < 0 {
		return fmt.Errorf("%w: min block seconds %v must not be negative", ErrInvalid, c.Timing.MinBlockSeconds)
	}
	if c.Entities.UppercaseRatio < 0 || c.Entities.UppercaseRatio > 1 {
		return fmt.Errorf("%w: uppercase ratio %v out of [0,1]", ErrInvalid, c.Entities.UppercaseRatio)
	}
	switch c.ShotList.Format {
	case "", "csv", "md", "pdf":
	default:
		return fmt.Errorf("%w: shot list format %q (csv, md, or pdf)", ErrInvalid, c.ShotList.Format)
	}
	return nil
}

// Geometry converts the inch-based page block to layout points.
func (c *Config) Geometry() layout.Geometry {
	return layout.Geometry{
		PageWidth:       c.Page.WidthIn * layout.PointsPerInch,
		PageHeight:      c.Page.HeightIn * layout.PointsPerInch,
		MarginTop:       c.Page.TopIn * layout.PointsPerInch,
		MarginBot:       c.Page.BottomIn * layout.PointsPerInch,
		TransitionRight: c.Page.TransitionRightIn * layout.PointsPerInch,
	}
}
